package sink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

// OpKind names a recorded draw operation.
type OpKind string

const (
	OpLine   OpKind = "line"
	OpCircle OpKind = "circle"
	OpText   OpKind = "text"
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind OpKind `json:"kind"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	Stroke      string    `json:"stroke,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	BorderWidth float64   `json:"borderWidth,omitempty"`
	Glow        string    `json:"glow,omitempty"`
	GlowBlur    float64   `json:"glowBlur,omitempty"`

	Text string  `json:"text,omitempty"`
	Size float64 `json:"size,omitempty"`
}

// DisplayList records draw operations instead of rasterising them.
type DisplayList struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
	Clears int     `json:"-"`
}

var _ Surface = (*DisplayList)(nil)

func (d *DisplayList) Clear(width, height float64) {
	d.Width, d.Height = width, height
	d.Ops = []Op{}
	d.Clears++
}

func (d *DisplayList) Line(x1, y1, x2, y2 float64, s styles.EdgeStyle) {
	d.Ops = append(d.Ops, Op{
		Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2,
		Stroke: s.Stroke.CSS(), Width: s.Width, Dash: s.Dash,
	})
}

func (d *DisplayList) Circle(cx, cy float64, s styles.NodeStyle) {
	op := Op{
		Kind: OpCircle, X: cx, Y: cy, Radius: s.Radius,
		Fill: s.Fill.CSS(), Stroke: s.Border.CSS(), BorderWidth: s.BorderWidth,
	}
	if s.Glow != nil {
		op.Glow = s.Glow.Color.CSS()
		op.GlowBlur = s.Glow.Blur
	}
	d.Ops = append(d.Ops, op)
}

func (d *DisplayList) Text(x, y float64, text string, c styles.Color, size float64) {
	d.Ops = append(d.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, Fill: c.CSS(), Size: size})
}

// Filter returns the recorded operations of the given kind.
func (d *DisplayList) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range d.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// WriteJSON writes the display list as indented JSON.
func (d *DisplayList) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
