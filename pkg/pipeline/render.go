package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/observability"
	"github.com/matzehuels/doctriage/pkg/render/nodelink"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	engine, _ := nodelink.ParseEngine(opts.Engine)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := renderFormats(ctx, l, engine, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, l layout.Layout, engine nodelink.Engine, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	graphviz := opts.Renderer == RendererGraphviz
	dot := func() string {
		return nodelink.ToDOT(l.Nodes, l.Edges, nodelink.Options{Detailed: opts.Detailed, Focus: l.Focus})
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, done := artifacts[format]; done {
			continue
		}

		var data []byte
		var err error

		switch {
		case format == FormatJSON:
			data, err = graph.MarshalLayout(graph.Export(l))
		case format == FormatDOT:
			data = []byte(dot())
		case format == FormatOps:
			data, err = sink.RenderJSON(l)
		case graphviz && format == FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot(), engine)
		case graphviz && format == FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot(), engine, opts.Scale)
		case graphviz && format == FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot(), engine)
		case format == FormatSVG:
			data = sink.RenderSVG(l, svgOptions(opts)...)
		case format == FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithScale(opts.Scale))
		case format == FormatPDF:
			data, err = sink.RenderPDF(ctx, l, svgOptions(opts)...)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(codeOf(err), err, "render %s", format)
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}

func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Legend {
		out = append(out, sink.WithLegend())
	}
	if opts.Titles {
		out = append(out, sink.WithTitles())
	}
	return out
}

// RenderFromLayoutData renders output from serialized layout data, as
// written by the json format.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(data)
	if err != nil {
		return nil, err
	}
	return Render(ctx, parsed.Parse(), opts)
}
