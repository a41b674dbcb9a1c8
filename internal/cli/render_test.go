package cli

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   []string
		want  []string
	}{
		{"empty defaults to svg", "", nil, []string{"svg"}},
		{"empty uses config default", "", []string{"png"}, []string{"png"}},
		{"single format", "pdf", nil, []string{"pdf"}},
		{"multiple formats", "svg,dot,ops", nil, []string{"svg", "dot", "ops"}},
		{"normalised and deduplicated", " SVG, svg ,json,", nil, []string{"svg", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input, tt.def); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "", "graph"},
		{"", "matter.json", "matter"},
		{"out/graph.svg", "", "out/graph"},
		{"out/graph.tar", "", "out/graph.tar"},
		{"report", "matter.json", "report"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format keeps exact path",
			output:  "x/graph.image",
			formats: []string{"png"},
			want:    map[string]string{"png": "x/graph.image"},
		},
		{
			name:    "multiple formats share a base",
			output:  "out.svg",
			formats: []string{"svg", "ops"},
			want:    map[string]string{"svg": "out.svg", "ops": "out.ops.json"},
		},
		{
			name:    "json never overwrites the input bundle",
			input:   "matter.json",
			formats: []string{"json"},
			want:    map[string]string{"json": "matter.layout.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.output, tt.input, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderOptsMerge(t *testing.T) {
	opts := renderOpts{formats: "png"}
	opts.Width = 300
	opts.merge(pipeline.Options{Width: 800, Height: 600, Seed: 9, Renderer: "graphviz", Engine: "fdp", Formats: []string{"svg"}})

	if opts.Width != 300 || opts.Height != 600 {
		t.Errorf("viewport = %vx%v, want 300x600", opts.Width, opts.Height)
	}
	if opts.Seed != 9 || opts.Renderer != "graphviz" || opts.Engine != "fdp" {
		t.Errorf("defaults not applied: %+v", opts.Options)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png"}) {
		t.Errorf("formats = %v, want flag value", opts.Formats)
	}
}

func TestListFilters(t *testing.T) {
	opts := listOpts{
		statuses: []string{"reviewed", "in progress"},
		from:     "2024-03-01",
		to:       "2024-03-31",
		relevant: "false",
	}
	f, err := opts.filters()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f.Status, []docs.Status{docs.StatusReviewed, docs.StatusInProgress}) {
		t.Errorf("status = %v", f.Status)
	}
	if f.IsRelevant == nil || *f.IsRelevant {
		t.Errorf("relevant = %v, want false", f.IsRelevant)
	}
	if f.IsKey != nil || f.IsPrivileged != nil {
		t.Error("unset flags should stay nil")
	}
	lastMoment := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	if f.To.Before(lastMoment) {
		t.Errorf("to = %v should include the whole day", f.To)
	}

	if _, err := (listOpts{statuses: []string{"archived"}}).filters(); err == nil {
		t.Error("unknown status accepted")
	}
}
