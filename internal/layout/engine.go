package layout

import (
	"context"
	"errors"
	"time"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/logging"
	"github.com/lspecian/netviz/internal/metrics"
	"github.com/lspecian/netviz/internal/solver"
	"github.com/lspecian/netviz/internal/tracing"
)

// Options configures an Engine. Zero-valued fields fall back to the module's
// built-in defaults via NewEngine.
type Options struct {
	Metrics Metrics

	NodeNodeSpacing     float64
	RankRankSpacing     float64
	EdgeNodeSpacingBase float64
	EdgeEdgeSpacingBase float64
	StrokeSpacingScale  float64 // extra px of edge spacing per additional parallel stroke

	ContainerPadding   float64 // subgraph/root container padding
	HAContainerPadding float64 // HA compound-container padding, kept tight
	HANodeSpacing      float64
	HARankSpacing      float64

	EdgeRouting string
	GridColumns int

	BoundsPadding float64 // margin added around the content's bounding box

	Solver solver.LayeredLayoutSolver // defaults to solver.LayeredSolver{}
	Logger *logging.Logger            // defaults to logging.Nop()
}

// DefaultOptions returns the module's built-in layout defaults.
func DefaultOptions() Options {
	return Options{
		Metrics:             DefaultMetrics(),
		NodeNodeSpacing:     40,
		RankRankSpacing:     80,
		EdgeNodeSpacingBase: 10,
		EdgeEdgeSpacingBase: 6,
		StrokeSpacingScale:  4,
		ContainerPadding:    24,
		HAContainerPadding:  2,
		HANodeSpacing:       6,
		HARankSpacing:       6,
		EdgeRouting:         "orthogonal",
		GridColumns:         4,
		BoundsPadding:       50,
		Solver:              solver.LayeredSolver{},
		Logger:              logging.Nop(),
	}
}

// Engine turns a graph.Graph into a positioned Result: a pure, synchronous
// transformation with exactly one suspension point (the solver invocation),
// wrapped in a retry-then-fallback policy that never panics and never
// returns an error for a solver failure.
type Engine struct {
	opts Options
}

// NewEngine builds an Engine, filling any zero-valued Options field with the
// module default.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Metrics == (Metrics{}) {
		opts.Metrics = def.Metrics
	}
	if opts.NodeNodeSpacing <= 0 {
		opts.NodeNodeSpacing = def.NodeNodeSpacing
	}
	if opts.RankRankSpacing <= 0 {
		opts.RankRankSpacing = def.RankRankSpacing
	}
	if opts.EdgeNodeSpacingBase <= 0 {
		opts.EdgeNodeSpacingBase = def.EdgeNodeSpacingBase
	}
	if opts.EdgeEdgeSpacingBase <= 0 {
		opts.EdgeEdgeSpacingBase = def.EdgeEdgeSpacingBase
	}
	if opts.StrokeSpacingScale <= 0 {
		opts.StrokeSpacingScale = def.StrokeSpacingScale
	}
	if opts.ContainerPadding <= 0 {
		opts.ContainerPadding = def.ContainerPadding
	}
	if opts.HAContainerPadding <= 0 {
		opts.HAContainerPadding = def.HAContainerPadding
	}
	if opts.HANodeSpacing <= 0 {
		opts.HANodeSpacing = def.HANodeSpacing
	}
	if opts.HARankSpacing <= 0 {
		opts.HARankSpacing = def.HARankSpacing
	}
	if opts.EdgeRouting == "" {
		opts.EdgeRouting = def.EdgeRouting
	}
	if opts.GridColumns <= 0 {
		opts.GridColumns = def.GridColumns
	}
	if opts.BoundsPadding <= 0 {
		opts.BoundsPadding = def.BoundsPadding
	}
	if opts.Solver == nil {
		opts.Solver = def.Solver
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Engine{opts: opts}
}

// Layout runs the full layout pipeline synchronously: validate, build
// hierarchy and HA index, assign ports and sizes, build the container tree,
// submit it to the solver (retrying once on a scanline-constraint error,
// falling back to the deterministic grid solver on any other failure), and
// extract the result.
func (e *Engine) Layout(ctx context.Context, g *graph.Graph) (*Result, error) {
	if g == nil {
		return nil, errors.New("layout: graph is nil")
	}
	start := time.Now()
	logger := e.opts.Logger

	valid := graph.Validate(g)
	for _, d := range valid.Diagnostics {
		metrics.RecordDiagnostic(string(d.Kind))
	}
	if len(valid.NodeIndex) == 0 {
		result := e.emptyResult(g, valid)
		result.Metadata.Duration = time.Since(start).Seconds()
		metrics.RecordLayout("none", "ok", result.Metadata.Duration, 0)
		return result, nil
	}

	h := graph.BuildHierarchy(g)
	haPairs := DetectHAPairs(g, valid, h)
	haIdx := BuildHAIndex(haPairs)
	portPlans, fromInfo, toInfo := AssignPorts(g, valid, h)
	sizes := e.computeSizes(valid, portPlans)
	tree := BuildContainerTree(g, valid, h, haIdx, fromInfo, toInfo)

	ctx, span := tracing.StartSpan(ctx, "layout.solve")
	defer span.End()

	req := e.buildRequest(tree, g, valid, sizes, portPlans, false)
	resp, err := e.opts.Solver.Solve(ctx, req)
	algorithm := "layered"

	if err != nil {
		if errors.Is(err, solver.ErrScanlineConstraint) {
			metrics.RecordSolverRetry("scanline_constraint")
			logger.Warn("solver hit a scanline constraint, retrying with compaction disabled")
			req2 := e.buildRequest(tree, g, valid, sizes, portPlans, true)
			resp, err = e.opts.Solver.Solve(ctx, req2)
		}
	}

	if err != nil {
		metrics.RecordSolverFallback("solver_error")
		logger.LogSolverFallback("solver_error", err)
		tracing.RecordSpanError(ctx, err)
		fallbackReq := e.buildRequest(tree, g, valid, sizes, portPlans, false)
		fallbackResp, ferr := solver.GridSolver{Columns: e.opts.GridColumns}.Solve(ctx, fallbackReq)
		if ferr != nil {
			// GridSolver never fails in practice; this is a defensive floor.
			fallbackResp = solver.Response{Root: fallbackReq.Root}
		}
		resp = fallbackResp
		algorithm = "fallback-grid"
	}

	result := e.extract(resp, g, valid, h, haIdx, portPlans, algorithm)
	result.Metadata.Duration = time.Since(start).Seconds()

	status := "ok"
	if algorithm == "fallback-grid" {
		status = "fallback"
	}
	metrics.RecordLayout(algorithm, status, result.Metadata.Duration, len(g.Nodes))
	logger.LogLayout(algorithm, len(result.Nodes), len(result.Links), result.Metadata.Duration)

	return result, nil
}

// LayoutAsync runs Layout in a goroutine, delivering exactly one AsyncResult
// on the returned channel before closing it. The returned CancelFunc
// cancels the underlying context; Layout's solver call is the only point
// that observes cancellation.
func (e *Engine) LayoutAsync(ctx context.Context, g *graph.Graph) (<-chan AsyncResult, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		result, err := e.Layout(ctx, g)
		ch <- AsyncResult{Result: result, Err: err}
	}()
	return ch, cancel
}

// LayoutQuick returns a fast grid-fallback layout immediately, and, if
// onReady is non-nil, runs the full solver-backed layout in the background
// and invokes onReady with its result once it completes. A convenience for
// interactive callers that want something on screen before the real layout
// finishes; correctness must not depend on onReady firing.
func (e *Engine) LayoutQuick(ctx context.Context, g *graph.Graph, onReady func(*Result, error)) (*Result, error) {
	if g == nil {
		return nil, errors.New("layout: graph is nil")
	}
	start := time.Now()
	valid := graph.Validate(g)
	if len(valid.NodeIndex) == 0 {
		quick := e.emptyResult(g, valid)
		quick.Metadata.Duration = time.Since(start).Seconds()
		if onReady != nil {
			onReady(quick, nil)
		}
		return quick, nil
	}

	h := graph.BuildHierarchy(g)
	haIdx := BuildHAIndex(DetectHAPairs(g, valid, h))
	portPlans, fromInfo, toInfo := AssignPorts(g, valid, h)
	sizes := e.computeSizes(valid, portPlans)
	tree := BuildContainerTree(g, valid, h, haIdx, fromInfo, toInfo)

	req := e.buildRequest(tree, g, valid, sizes, portPlans, false)
	resp, _ := solver.GridSolver{Columns: e.opts.GridColumns}.Solve(ctx, req)
	quick := e.extract(resp, g, valid, h, haIdx, portPlans, "fallback-grid")
	quick.Metadata.Duration = time.Since(start).Seconds()

	if onReady != nil {
		go func() {
			result, err := e.Layout(context.Background(), g)
			onReady(result, err)
		}()
	}
	return quick, nil
}

// defaultEmptyBounds is the fallback viewport for a graph with no nodes.
var defaultEmptyBounds = Bounds{W: 400, H: 300}

func (e *Engine) emptyResult(g *graph.Graph, valid *graph.Validated) *Result {
	return &Result{
		Nodes:       make(map[string]*LayoutNode),
		Links:       make(map[string]*LayoutLink),
		Subgraphs:   make(map[string]*LayoutSubgraph),
		Bounds:      defaultEmptyBounds,
		Metadata:    Metadata{Algorithm: "none"},
		SourceGraph: g,
		Diagnostics: valid.Diagnostics,
	}
}

func (e *Engine) computeSizes(valid *graph.Validated, portPlans map[string]*portPlan) map[string]Size {
	sizes := make(map[string]Size, len(valid.NodeIndex))
	for id, n := range valid.NodeIndex {
		plan := portPlans[id]
		top, bottom, left, right := SideCounts(plan)
		longest := 0
		for _, side := range []graph.Side{graph.SideTop, graph.SideBottom, graph.SideLeft, graph.SideRight} {
			if l := LongestPortLabel(plan, side); l > longest {
				longest = l
			}
		}
		m := e.opts.Metrics
		m.MinPortSpacing = PortSpacing(longest, e.opts.Metrics)
		sizes[id] = EstimateSize(n, top, bottom, left, right, m)
	}
	return sizes
}
