// Package icons holds the immutable icon lookup consumed by the SVG
// renderer. The registry is an explicit value passed into the renderer; the
// package-level default instance below is only a convenience shim, not the
// only way to obtain one.
package icons

import "sync"

// Key identifies one icon by the same vendor/service/model/resource/type
// fields a graph.Node carries, most-specific first.
type Key struct {
	Vendor   string
	Service  string
	Model    string
	Resource string
	Type     string
}

// Entry is one registered icon: an inline SVG fragment (a <symbol> body, no
// wrapping <svg> tag) and its natural aspect ratio.
type Entry struct {
	Glyph       string // inline SVG path/group markup
	AspectRatio float64
}

// Registry is an immutable map[Key]Entry populated once at startup.
type Registry struct {
	entries map[Key]Entry
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[Key]Entry)}
}

// Register adds or replaces the entry for key. Intended for use only by the
// single initializing actor that builds a Registry before handing it to the
// renderer; Lookup is safe for concurrent readers once construction is done.
func (r *Registry) Register(key Key, entry Entry) {
	r.entries[key] = entry
}

// Lookup finds the most specific registered icon for a node's identity
// fields, trying the full five-field key, then vendor+model, then
// vendor+service, then resource alone, then the bare device-class type
// (skipping any candidate whose fields are all empty), and returns
// (Entry{}, false) when nothing matches.
func (r *Registry) Lookup(vendor, service, model, resource, typ string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	candidates := []Key{
		{Vendor: vendor, Service: service, Model: model, Resource: resource, Type: typ},
		{Vendor: vendor, Model: model},
		{Vendor: vendor, Service: service},
		{Resource: resource},
		{Type: typ},
	}
	for _, k := range candidates {
		if k == (Key{}) {
			continue
		}
		if e, ok := r.entries[k]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupNode is a convenience wrapper that pulls the icon-relevant fields
// off the values the renderer already has in hand.
func (r *Registry) LookupNode(vendor, service, model, resource, typ string) (Entry, bool) {
	return r.Lookup(vendor, service, model, resource, typ)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-global default Registry, built once and
// empty by default. Callers that want real icon glyphs populate it via
// RegisterDefault, or build their own Registry and pass it explicitly to
// the renderer; the global instance is never required.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}

// RegisterDefault registers an entry on the process-global default
// Registry.
func RegisterDefault(key Key, entry Entry) {
	Default().Register(key, entry)
}
