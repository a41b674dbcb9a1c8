package interact

import (
	"context"
	"sync"

	"github.com/matzehuels/doctriage/pkg/observability"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/sink"
)

// Cursor is the pointer affordance shown over the canvas.
type Cursor string

const (
	CursorDefault Cursor = "default"
	CursorPointer Cursor = "pointer"
)

// EventKind names a pointer event stream.
type EventKind string

const (
	EventClick       EventKind = "click"
	EventPointerMove EventKind = "pointermove"
)

// PointerEvent is a pointer position in canvas coordinates.
type PointerEvent struct {
	X, Y float64
}

// Handler receives pointer events.
type Handler func(PointerEvent)

// Canvas is the surface a View paints on and listens to.
type Canvas interface {
	sink.Surface
	// Listen registers h for kind and returns the function that removes
	// exactly that registration.
	Listen(kind EventKind, h Handler) (remove func())
	SetCursor(c Cursor)
}

// Tooltip is a floating label owned by a View.
type Tooltip interface {
	Show(text string, x, y float64)
	Hide()
	// Dispose detaches the tooltip for good.
	Dispose()
}

// TooltipFactory creates the tooltip for one layout generation.
type TooltipFactory func() Tooltip

// TooltipOffset is how far above the pointer the tooltip is anchored.
const TooltipOffset = 30.0

// Input is everything a View lays out.
type Input struct {
	Nodes  []layout.Node
	Edges  []layout.Edge
	Width  float64
	Height float64
	Focus  string
	// Options are passed to the solver after the focus.
	Options []layout.Option
}

// View wires the solver, painter and hit-tester to a Canvas.
// It is safe for concurrent use.
type View struct {
	canvas     Canvas
	newTooltip TooltipFactory
	onSelect   func(id string)

	mu       sync.Mutex
	ctx      context.Context
	layout   layout.Layout
	tooltip  Tooltip
	removers []func()
	closed   bool
}

// NewView creates a view over canvas. onSelect is called with the ID of a
// clicked node. newTooltip may be nil when no tooltip is wanted.
func NewView(canvas Canvas, newTooltip TooltipFactory, onSelect func(id string)) *View {
	return &View{
		canvas:     canvas,
		newTooltip: newTooltip,
		onSelect:   onSelect,
		ctx:        context.Background(),
	}
}

// Update tears down the previous generation, solves and paints in, and
// registers fresh listeners. It is a no-op after Close. ctx is used for the
// hooks fired by later pointer events.
func (v *View) Update(ctx context.Context, in Input) layout.Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.layout
	}
	v.teardown()
	v.ctx = ctx

	opts := append([]layout.Option{layout.WithFocus(in.Focus)}, in.Options...)
	v.layout = layout.Solve(in.Nodes, in.Edges, in.Width, in.Height, opts...)
	sink.Paint(v.canvas, v.layout)

	if v.newTooltip != nil {
		v.tooltip = v.newTooltip()
	}
	v.removers = append(v.removers,
		v.canvas.Listen(EventClick, v.handleClick),
		v.canvas.Listen(EventPointerMove, v.handleMove),
	)
	return v.layout
}

// Layout returns the last computed layout.
func (v *View) Layout() layout.Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layout
}

// Close removes the listeners and disposes the tooltip. Calling Close more
// than once is safe.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.teardown()
	v.closed = true
}

func (v *View) teardown() {
	for _, remove := range v.removers {
		remove()
	}
	v.removers = nil
	if v.tooltip != nil {
		v.tooltip.Dispose()
		v.tooltip = nil
	}
}

// Click hit-tests a click and returns the selected node ID.
func (v *View) Click(x, y float64) (string, bool) {
	v.mu.Lock()
	n, ok := HitTest(v.layout, x, y, ClickTolerance)
	ctx, onSelect := v.ctx, v.onSelect
	v.mu.Unlock()

	observability.Interaction().OnHitTest(ctx, string(ModeClick), ok)
	if !ok {
		return "", false
	}
	// Called outside the lock so the callback may call back into the view.
	if onSelect != nil {
		onSelect(n.ID)
	}
	return n.ID, true
}

// Hover hit-tests a pointer move, updating the tooltip and cursor.
func (v *View) Hover(x, y float64) (layout.Node, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, ok := HitTest(v.layout, x, y, HoverTolerance)
	observability.Interaction().OnHitTest(v.ctx, string(ModeHover), ok)
	if ok {
		if v.tooltip != nil {
			v.tooltip.Show(label(n), x, y-TooltipOffset)
		}
		v.canvas.SetCursor(CursorPointer)
		return n, true
	}
	if v.tooltip != nil {
		v.tooltip.Hide()
	}
	v.canvas.SetCursor(CursorDefault)
	return layout.Node{}, false
}

func (v *View) handleClick(e PointerEvent) { v.Click(e.X, e.Y) }
func (v *View) handleMove(e PointerEvent)  { v.Hover(e.X, e.Y) }

func label(n layout.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
