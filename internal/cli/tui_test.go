package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/interact"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/sink"
)

func TestCellRoundTrip(t *testing.T) {
	for cx := 0; cx < 40; cx += 7 {
		for cy := 0; cy < 10; cy += 3 {
			x, y := centreOf(cx, cy, 800, 600, 40, 10)
			gx, gy := cellOf(x, y, 800, 600, 40, 10)
			if gx != cx || gy != cy {
				t.Errorf("cell (%d,%d) -> (%v,%v) -> (%d,%d)", cx, cy, x, y, gx, gy)
			}
		}
	}
	if x, y := cellOf(-5, 900, 800, 600, 40, 10); x != 0 || y != 9 {
		t.Errorf("out-of-bounds point mapped to (%d,%d), want clamped (0,9)", x, y)
	}
}

func TestCSSHex(t *testing.T) {
	tests := map[string]string{
		"rgb(59, 130, 246)":     "#3b82f6",
		"rgba(255, 0, 16, 0.5)": "#ff0010",
		"transparent":           "",
		"rgb(not, a, colour)":   "",
	}
	for in, want := range tests {
		if got := cssHex(in); got != want {
			t.Errorf("cssHex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRasterize(t *testing.T) {
	dl := &sink.DisplayList{Width: 100, Height: 100}
	dl.Ops = []sink.Op{
		{Kind: sink.OpLine, X1: 5, Y1: 5, X2: 95, Y2: 5},
		{Kind: sink.OpCircle, X: 5, Y: 5, Fill: "rgb(255, 0, 0)"},
		{Kind: sink.OpCircle, X: 95, Y: 5, Fill: "rgb(0, 255, 0)"},
	}
	grid := rasterize(dl, 10, 10, &layout.Point{X: 95, Y: 5})

	if grid[0][0].r != runeNode || grid[0][0].fill != "#ff0000" {
		t.Errorf("left node cell = %+v", grid[0][0])
	}
	if grid[0][9].r != runeCurrent {
		t.Errorf("focus cell = %q, want %q", grid[0][9].r, runeCurrent)
	}
	for x := 1; x < 9; x++ {
		if grid[0][x].r != runeEdge {
			t.Errorf("edge cell %d = %q", x, grid[0][x].r)
		}
	}
	if grid[5][5].r != runeBlank {
		t.Errorf("untouched cell = %q", grid[5][5].r)
	}

	empty := rasterize(&sink.DisplayList{}, 4, 2, nil)
	if len(empty) != 2 || len(empty[0]) != 4 {
		t.Errorf("empty grid size %dx%d", len(empty[0]), len(empty))
	}
}

func browseFixture(t *testing.T) *BrowseModel {
	t.Helper()
	documents := []docs.Document{
		{ID: "a", FileName: "lease.pdf", FileType: "application/pdf", Status: docs.StatusUnread},
		{ID: "b", FileName: "memo.docx", FileType: "application/msword", Status: docs.StatusReviewed},
		{ID: "c", FileName: "notice.eml", FileType: "message/rfc822", Status: docs.StatusInProgress},
	}
	rels := []docs.Relationship{
		{SourceID: "a", TargetID: "b", Type: docs.RelReferenced, Strength: 0.8},
		{SourceID: "b", TargetID: "c", Type: docs.RelSimilar, Strength: 0.5},
	}
	m := NewBrowseModel(context.Background(), documents, rels, 400, 300, 3)
	t.Cleanup(m.Close)
	return m
}

func press(m *BrowseModel, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyNext  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
)

func TestBrowseListFocus(t *testing.T) {
	m := browseFixture(t)
	if m.Focus != "a" {
		t.Fatalf("initial focus = %q, want a", m.Focus)
	}
	if len(m.canvas.Filter(sink.OpCircle)) != 3 {
		t.Errorf("painted %d nodes, want 3", len(m.canvas.Filter(sink.OpCircle)))
	}

	press(m, keyDown, keyEnter)
	if m.Focus != "b" || m.Cursor != 1 {
		t.Errorf("focus = %q cursor = %d, want b 1", m.Focus, m.Cursor)
	}
	if !m.layout.Nodes[1].IsCurrent {
		t.Error("refocused node should be current")
	}
	if m.canvas.Listeners(interact.EventClick) != 1 {
		t.Errorf("%d click listeners after refocus, want 1", m.canvas.Listeners(interact.EventClick))
	}
}

func TestBrowsePointerSelectsNode(t *testing.T) {
	m := browseFixture(t)
	press(m, keyTab, keyNext)
	if !m.MapMode {
		t.Fatal("tab should enter map mode")
	}

	target, ok := interact.HitTest(m.layout, m.PX, m.PY, interact.ClickTolerance)
	if !ok {
		t.Fatalf("pointer (%v,%v) is not on a node after jump", m.PX, m.PY)
	}
	if m.canvas.Cursor() != interact.CursorPointer {
		t.Errorf("cursor = %q over a node", m.canvas.Cursor())
	}
	if m.tooltip == nil || !m.tooltip.visible {
		t.Error("tooltip should show over a node")
	}

	press(m, keyEnter)
	if m.Focus != target.ID {
		t.Errorf("focus = %q after click, want %q", m.Focus, target.ID)
	}
}

func TestBrowseArrowKeysReachNodes(t *testing.T) {
	m := browseFixture(t)
	press(m, keyTab)
	// Coarse rows are taller than the hover tolerance.
	m.Cols, m.Rows = 10, 5

	checked := 0
	for _, n := range m.layout.Nodes {
		p, _ := m.layout.Position(n.ID)
		cx, cy := cellOf(p.X, p.Y, m.width, m.height, m.Cols, m.Rows)
		if first, _ := m.nodeInCell(cx, cy); first != p {
			continue // shares its cell with an earlier node
		}
		key, from := keyRight, cx-1
		if from < 0 {
			key, from = keyLeft, cx+1
		}
		if _, taken := m.nodeInCell(from, cy); taken {
			continue
		}
		m.PX, m.PY = centreOf(from, cy, m.width, m.height, m.Cols, m.Rows)
		press(m, key)

		if m.PX != p.X || m.PY != p.Y {
			t.Errorf("%s: pointer at (%v,%v), want node position (%v,%v)", n.ID, m.PX, m.PY, p.X, p.Y)
		}
		if _, ok := interact.HitTest(m.layout, m.PX, m.PY, interact.HoverTolerance); !ok {
			t.Errorf("%s: no hover hit at the node position", n.ID)
		}
		if m.tooltip == nil || !m.tooltip.visible {
			t.Errorf("%s: tooltip hidden after arrow move", n.ID)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no node could be approached from a free neighbouring cell")
	}
}

func TestBrowseView(t *testing.T) {
	m := browseFixture(t)
	out := m.View()
	for _, want := range []string{"Document Relationships", "lease.pdf", "[1/3]"} {
		if !strings.Contains(out, want) {
			t.Errorf("view lacks %q", want)
		}
	}
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	if m.Cols != 76 || m.Rows != 32 {
		t.Errorf("map %dx%d after resize, want 76x32", m.Cols, m.Rows)
	}
}

func TestBrowseCloseDisposesTooltip(t *testing.T) {
	m := browseFixture(t)
	tip := m.tooltip
	m.Close()
	if tip == nil || !tip.disposed {
		t.Error("Close should dispose the tooltip")
	}
	if m.canvas.Listeners(interact.EventPointerMove) != 0 {
		t.Error("Close should remove listeners")
	}
}
