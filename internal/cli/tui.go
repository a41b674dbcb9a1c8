package cli

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/render/relgraph"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/interact"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/sink"
)

var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	mapEdgeStyle  = lipgloss.NewStyle().Foreground(colorDim)
	mapFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	pointerStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	tooltipStyle  = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("237")).Padding(0, 1)
)

// =============================================================================
// Map rasterisation
// =============================================================================

// mapCell is one character of the terminal graph map.
type mapCell struct {
	r    rune
	fill string // #rrggbb, "" for edges and blanks
}

const (
	runeBlank   = ' '
	runeEdge    = '·'
	runeNode    = '●'
	runeCurrent = '◉'
)

// cellOf maps a canvas point to a grid cell, clamped to the grid.
func cellOf(x, y, width, height float64, cols, rows int) (int, int) {
	cx := int(x / width * float64(cols))
	cy := int(y / height * float64(rows))
	return min(max(cx, 0), cols-1), min(max(cy, 0), rows-1)
}

// centreOf is the inverse of cellOf: the canvas point at a cell's centre.
func centreOf(cx, cy int, width, height float64, cols, rows int) (float64, float64) {
	return (float64(cx) + 0.5) * width / float64(cols), (float64(cy) + 0.5) * height / float64(rows)
}

// rasterize draws a display list onto a cols×rows grid. Lines are sampled
// per cell; circles overwrite lines. current marks the circle drawn at the
// focus position.
func rasterize(dl *sink.DisplayList, cols, rows int, current *layout.Point) [][]mapCell {
	grid := make([][]mapCell, rows)
	for y := range grid {
		grid[y] = make([]mapCell, cols)
		for x := range grid[y] {
			grid[y][x] = mapCell{r: runeBlank}
		}
	}
	if dl.Width <= 0 || dl.Height <= 0 || cols == 0 || rows == 0 {
		return grid
	}
	for _, op := range dl.Filter(sink.OpLine) {
		x1, y1 := cellOf(op.X1, op.Y1, dl.Width, dl.Height, cols, rows)
		x2, y2 := cellOf(op.X2, op.Y2, dl.Width, dl.Height, cols, rows)
		steps := max(abs(x2-x1), abs(y2-y1))
		for i := 0; i <= steps; i++ {
			t := 0.0
			if steps > 0 {
				t = float64(i) / float64(steps)
			}
			x := int(math.Round(float64(x1) + t*float64(x2-x1)))
			y := int(math.Round(float64(y1) + t*float64(y2-y1)))
			grid[y][x] = mapCell{r: runeEdge}
		}
	}
	for _, op := range dl.Filter(sink.OpCircle) {
		x, y := cellOf(op.X, op.Y, dl.Width, dl.Height, cols, rows)
		r := runeNode
		if current != nil && op.X == current.X && op.Y == current.Y {
			r = runeCurrent
		}
		grid[y][x] = mapCell{r: r, fill: cssHex(op.Fill)}
	}
	return grid
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// cssHex converts "rgb(r, g, b)" or "rgba(r, g, b, a)" to #rrggbb.
func cssHex(css string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(css, "rgb(%d, %d, %d)", &r, &g, &b); err == nil {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	if _, err := fmt.Sscanf(css, "rgba(%d, %d, %d,", &r, &g, &b); err == nil {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return ""
}

// =============================================================================
// Tooltip
// =============================================================================

// termTooltip is a Tooltip shown on the browser's status line.
type termTooltip struct {
	text     string
	visible  bool
	disposed bool
}

func (t *termTooltip) Show(text string, _, _ float64) {
	if !t.disposed {
		t.text, t.visible = text, true
	}
}

func (t *termTooltip) Hide()    { t.visible = false }
func (t *termTooltip) Dispose() { t.visible, t.disposed = false, true }

// =============================================================================
// BrowseModel - Interactive relationship graph
// =============================================================================

// BrowseModel is the bubbletea model of `doctriage browse`: a document
// list beside a character map of the relationship graph. In map mode the
// arrow keys move a pointer that is fed to the view's hit-tester.
type BrowseModel struct {
	ctx    context.Context
	docs   []docs.Document
	rels   []docs.Relationship
	width  float64
	height float64
	seed   uint64

	canvas  *interact.MemoryCanvas
	view    *interact.View
	tooltip *termTooltip
	layout  layout.Layout

	Cursor  int
	Offset  int
	Height  int
	Cols    int
	Rows    int
	MapMode bool

	// Pointer in canvas coordinates.
	PX, PY float64

	pending string
	Focus   string
}

// NewBrowseModel lays out the graph focused on the first document.
func NewBrowseModel(ctx context.Context, documents []docs.Document, rels []docs.Relationship, width, height float64, seed uint64) *BrowseModel {
	m := &BrowseModel{
		ctx:    ctx,
		docs:   documents,
		rels:   rels,
		width:  width,
		height: height,
		seed:   seed,
		canvas: interact.NewMemoryCanvas(),
		Height: 15,
		Cols:   60,
		Rows:   20,
	}
	m.view = interact.NewView(m.canvas, func() interact.Tooltip {
		m.tooltip = &termTooltip{}
		return m.tooltip
	}, func(id string) { m.pending = id })
	m.PX, m.PY = width/2, height/2
	if len(documents) > 0 {
		m.focusOn(documents[0].ID)
	}
	return m
}

// focusOn relays the graph around id, starting from the current positions
// so that refocusing does not scramble the map.
func (m *BrowseModel) focusOn(id string) {
	if i := slices.IndexFunc(m.docs, func(d docs.Document) bool { return d.ID == id }); i >= 0 {
		m.Cursor = i
		m.scrollToCursor()
	}
	m.Focus = id
	opts := []layout.Option{layout.WithSeed(m.seed)}
	if len(m.layout.Positions) > 0 {
		opts = append(opts, layout.WithInitial(m.layout.Positions))
	}
	m.layout = m.view.Update(m.ctx, interact.Input{
		Nodes:   relgraph.ToNodes(m.docs, id),
		Edges:   relgraph.ToEdges(m.rels),
		Width:   m.width,
		Height:  m.height,
		Focus:   id,
		Options: opts,
	})
}

func (m *BrowseModel) scrollToCursor() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// movePointer nudges the pointer by whole cells and hovers it. A cell
// drawing a node puts the pointer on that node, since a cell can be wider
// than the hover tolerance.
func (m *BrowseModel) movePointer(dx, dy int) {
	cx, cy := cellOf(m.PX, m.PY, m.width, m.height, m.Cols, m.Rows)
	cx = min(max(cx+dx, 0), m.Cols-1)
	cy = min(max(cy+dy, 0), m.Rows-1)
	m.PX, m.PY = centreOf(cx, cy, m.width, m.height, m.Cols, m.Rows)
	if p, ok := m.nodeInCell(cx, cy); ok {
		m.PX, m.PY = p.X, p.Y
	}
	m.canvas.Dispatch(interact.EventPointerMove, interact.PointerEvent{X: m.PX, Y: m.PY})
}

// nodeInCell returns the position of the first node drawn in cell (cx, cy).
func (m *BrowseModel) nodeInCell(cx, cy int) (layout.Point, bool) {
	for _, n := range m.layout.Nodes {
		p, ok := m.layout.Position(n.ID)
		if !ok {
			continue
		}
		if x, y := cellOf(p.X, p.Y, m.width, m.height, m.Cols, m.Rows); x == cx && y == cy {
			return p, true
		}
	}
	return layout.Point{}, false
}

// jumpPointer snaps the pointer onto the next node after the one under it.
func (m *BrowseModel) jumpPointer() {
	if len(m.layout.Nodes) == 0 {
		return
	}
	next := 0
	if n, ok := interact.HitTest(m.layout, m.PX, m.PY, interact.HoverTolerance); ok {
		i := slices.IndexFunc(m.layout.Nodes, func(o layout.Node) bool { return o.ID == n.ID })
		next = (i + 1) % len(m.layout.Nodes)
	}
	p, _ := m.layout.Position(m.layout.Nodes[next].ID)
	m.PX, m.PY = p.X, p.Y
	m.canvas.Dispatch(interact.EventPointerMove, interact.PointerEvent{X: m.PX, Y: m.PY})
}

// click dispatches a click at the pointer and refocuses on a hit.
func (m *BrowseModel) click() {
	m.pending = ""
	m.canvas.Dispatch(interact.EventClick, interact.PointerEvent{X: m.PX, Y: m.PY})
	if m.pending != "" {
		m.focusOn(m.pending)
		m.canvas.Dispatch(interact.EventPointerMove, interact.PointerEvent{X: m.PX, Y: m.PY})
	}
}

// Close releases the view's listeners and tooltip.
func (m *BrowseModel) Close() { m.view.Close() }

func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.MapMode = !m.MapMode
			return m, nil
		case "esc":
			if !m.MapMode {
				return m, tea.Quit
			}
			m.MapMode = false
			return m, nil
		}
		if m.MapMode {
			m.updateMap(msg.String())
		} else {
			m.updateList(msg.String())
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.Rows = max(msg.Height-8, 8)
		m.Cols = max(msg.Width/2-4, 20)
		m.scrollToCursor()
	}
	return m, nil
}

func (m *BrowseModel) updateList(key string) {
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.scrollToCursor()
		}
	case "down", "j":
		if m.Cursor < len(m.docs)-1 {
			m.Cursor++
			m.scrollToCursor()
		}
	case "enter":
		if len(m.docs) > 0 {
			m.focusOn(m.docs[m.Cursor].ID)
		}
	}
}

func (m *BrowseModel) updateMap(key string) {
	switch key {
	case "up", "k":
		m.movePointer(0, -1)
	case "down", "j":
		m.movePointer(0, 1)
	case "left", "h":
		m.movePointer(-1, 0)
	case "right", "l":
		m.movePointer(1, 0)
	case "n":
		m.jumpPointer()
	case "enter", " ":
		m.click()
	}
}

func (m *BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Document Relationships"))
	b.WriteString("\n")
	if m.MapMode {
		b.WriteString(listDimStyle.Render("arrows move pointer  n next node  ⏎ focus  tab list  q quit"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ focus  tab map  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.docs))
	list := documentTable(m.docs[m.Offset:end], m.Cursor-m.Offset).Render()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderMap()))
	b.WriteString("\n")

	if m.tooltip != nil && m.tooltip.visible {
		b.WriteString(tooltipStyle.Render(m.tooltip.text))
	} else if m.Focus != "" {
		b.WriteString(listDimStyle.Render("focus: " + m.focusLabel()))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  cursor: %s", m.Cursor+1, len(m.docs), m.canvas.Cursor())))
	return b.String()
}

func (m *BrowseModel) focusLabel() string {
	for _, n := range m.layout.Nodes {
		if n.ID == m.Focus {
			return n.Label
		}
	}
	return m.Focus
}

func (m *BrowseModel) renderMap() string {
	var current *layout.Point
	if p, ok := m.layout.Position(m.Focus); ok {
		current = &p
	}
	grid := rasterize(&m.canvas.DisplayList, m.Cols, m.Rows, current)
	px, py := cellOf(m.PX, m.PY, m.width, m.height, m.Cols, m.Rows)

	var b strings.Builder
	for y, row := range grid {
		for x, c := range row {
			switch {
			case m.MapMode && x == px && y == py:
				r := "+"
				if m.canvas.Cursor() == interact.CursorPointer {
					r = "✚"
				}
				b.WriteString(pointerStyle.Render(r))
			case c.fill != "":
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.fill)).Render(string(c.r)))
			case c.r == runeEdge:
				b.WriteString(mapEdgeStyle.Render(string(c.r)))
			default:
				b.WriteRune(c.r)
			}
		}
		if y < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return mapFrameStyle.Render(b.String())
}
