package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/render"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the category and review flags to node labels.
	// When false, only the label is shown.
	Detailed bool
	// Focus is painted as the current document.
	Focus string
}

// Engine names a Graphviz layout engine.
type Engine string

// Supported engines.
const (
	EngineDot   Engine = "dot"
	EngineNeato Engine = "neato"
	EngineFDP   Engine = "fdp"
	EngineCirco Engine = "circo"
)

// ParseEngine validates an engine name. An empty name selects neato.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(s)); e {
	case "":
		return EngineNeato, nil
	case EngineDot, EngineNeato, EngineFDP, EngineCirco:
		return e, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown graphviz engine %q (must be one of: dot, neato, fdp, circo)", s)
}

func (e Engine) layout() graphviz.Layout {
	switch e {
	case EngineDot:
		return graphviz.DOT
	case EngineFDP:
		return graphviz.FDP
	case EngineCirco:
		return graphviz.CIRCO
	default:
		return graphviz.NEATO
	}
}

// ToDOT converts the relationship graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Referenced and sequential relationships keep their direction; similar
// relationships are drawn without arrowheads. Edges with an endpoint
// missing from nodes are skipped.
func ToDOT(nodes []layout.Node, edges []layout.Edge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=10, fontcolor=white, color=white, penwidth=2];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if present[n.ID] {
			continue
		}
		present[n.ID] = true
		st := styles.Node(n, opts.Focus)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", st.Fill.Hex()),
			fmt.Sprintf("width=%s", inches(2*st.Radius)),
			fmt.Sprintf("tooltip=%q", n.Label),
		}
		if st.Glyph != "" {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", st.Glyph))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !present[e.Source] || !present[e.Target] {
			continue
		}
		st := styles.Edge(e.Type, e.Strength)
		attrs := []string{
			fmt.Sprintf("color=%q", hexAlpha(st.Stroke)),
			fmt.Sprintf("penwidth=%s", strconv.FormatFloat(st.Width, 'f', 2, 64)),
			fmt.Sprintf("weight=%s", strconv.FormatFloat(1+e.Strength, 'f', 2, 64)),
		}
		if st.Dashed() {
			attrs = append(attrs, "style=dashed")
		}
		if e.Type == docs.RelSimilar {
			attrs = append(attrs, "dir=none")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layout.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	parts := []string{string(n.Category)}
	for _, f := range []struct {
		on   bool
		name string
	}{{n.IsKey, "key"}, {n.IsRelevant, "relevant"}, {n.IsPrivileged, "privileged"}} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	return label + "\n" + strings.Join(parts, ", ")
}

// inches converts pixels at 72 dpi.
func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 3, 64)
}

func hexAlpha(c styles.Color) string {
	a := c.NRGBA().A
	return fmt.Sprintf("%s%02x", c.Hex(), a)
}

// RenderSVG renders a DOT graph to SVG using the given Graphviz engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engine.layout())

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose width and height match the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, engine Engine, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
