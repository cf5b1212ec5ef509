package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateLinkID synthesizes a link id when the graph author left Link.ID
// unset. A short endpoint-derived prefix keeps generated ids readable in
// diagnostics and SVG data-id attributes; the uuid suffix keeps them unique
// across repeated endpoint pairs.
func GenerateLinkID(l Link) string {
	return fmt.Sprintf("link-%s-%s-%s", l.From.Node, l.To.Node, uuid.New().String()[:8])
}

// EnsureLinkIDs returns a copy of links with GenerateLinkID applied to any
// link whose ID is empty.
func EnsureLinkIDs(links []Link) []Link {
	out := make([]Link, len(links))
	for i, l := range links {
		out[i] = l
		if out[i].ID == "" {
			out[i].ID = GenerateLinkID(l)
		}
	}
	return out
}
