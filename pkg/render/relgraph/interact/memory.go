package interact

import (
	"sync"

	"github.com/matzehuels/doctriage/pkg/render/relgraph/sink"
)

// MemoryCanvas is an in-process Canvas: it records draw calls in a display
// list and dispatches events to registered handlers. Terminal and HTTP
// front ends drive it with Dispatch.
type MemoryCanvas struct {
	sink.DisplayList

	mu        sync.Mutex
	next      int
	listeners map[EventKind]map[int]Handler
	cursor    Cursor
}

var _ Canvas = (*MemoryCanvas)(nil)

// NewMemoryCanvas returns an empty canvas with the default cursor.
func NewMemoryCanvas() *MemoryCanvas {
	return &MemoryCanvas{
		listeners: make(map[EventKind]map[int]Handler),
		cursor:    CursorDefault,
	}
}

func (c *MemoryCanvas) Listen(kind EventKind, h Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners[kind] == nil {
		c.listeners[kind] = make(map[int]Handler)
	}
	id := c.next
	c.next++
	c.listeners[kind][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners[kind], id)
		})
	}
}

func (c *MemoryCanvas) SetCursor(cur Cursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = cur
}

// Cursor returns the current cursor.
func (c *MemoryCanvas) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Listeners returns the number of handlers registered for kind.
func (c *MemoryCanvas) Listeners(kind EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners[kind])
}

// Dispatch delivers e to every handler registered for kind.
func (c *MemoryCanvas) Dispatch(kind EventKind, e PointerEvent) {
	c.mu.Lock()
	hs := make([]Handler, 0, len(c.listeners[kind]))
	for _, h := range c.listeners[kind] {
		hs = append(hs, h)
	}
	c.mu.Unlock()
	for _, h := range hs {
		h(e)
	}
}

// MemoryTooltip is a Tooltip that keeps its state in fields.
type MemoryTooltip struct {
	mu       sync.Mutex
	text     string
	x, y     float64
	visible  bool
	disposed bool
}

func (t *MemoryTooltip) Show(text string, x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text, t.x, t.y, t.visible = text, x, y, true
}

func (t *MemoryTooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}

func (t *MemoryTooltip) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
	t.disposed = true
}

// State returns the tooltip text, anchor and visibility.
func (t *MemoryTooltip) State() (text string, x, y float64, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text, t.x, t.y, t.visible
}

// Disposed reports whether Dispose was called.
func (t *MemoryTooltip) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}
