package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/doctriage/pkg/cache"
	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/observability"
)

func testBundle() graph.Bundle {
	doc := func(id, name, fileType string) docs.Document {
		return docs.Document{ID: id, FileName: name, FileType: fileType, Status: docs.StatusUnread, Tags: []string{}}
	}
	return graph.NewBundle(
		[]docs.Document{
			doc("lease", "lease.pdf", "pdf"),
			doc("memo", "memo.docx", "docx"),
			doc("mail", "notice.eml", "eml"),
			doc("lonely", "photo.jpg", "jpg"),
		},
		[]docs.Relationship{
			{SourceID: "lease", TargetID: "memo", Type: docs.RelReferenced, Strength: 0.8},
			{SourceID: "memo", TargetID: "mail", Type: docs.RelSimilar, Strength: 0.6},
		},
	)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"ops", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); !errors.IsInvalid(err) {
		t.Errorf("Invalid format should fail with an invalid-input error, got %v", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateScopeAndRenderer(t *testing.T) {
	for _, s := range []string{ScopeAll, ScopeNeighbourhood} {
		if err := ValidateScope(s); err != nil {
			t.Errorf("ValidateScope(%q) = %v", s, err)
		}
	}
	if err := ValidateScope("everything"); err == nil {
		t.Error("unknown scope should fail")
	}
	for _, r := range []string{RendererRelgraph, RendererGraphviz} {
		if err := ValidateRenderer(r); err != nil {
			t.Errorf("ValidateRenderer(%q) = %v", r, err)
		}
	}
	if err := ValidateRenderer("canvas"); err == nil {
		t.Error("unknown renderer should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Scope != ScopeAll {
		t.Errorf("Scope = %q, want %q", opts.Scope, ScopeAll)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Renderer != RendererRelgraph {
		t.Errorf("Renderer = %q, want %q", opts.Renderer, RendererRelgraph)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if opts.Cacheable() {
		t.Error("unseeded options must not be cacheable")
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"negative width", Options{Width: -1}, true},
		{"negative iterations", Options{Iterations: -3}, true},
		{"neighbourhood without focus", Options{Scope: ScopeNeighbourhood}, true},
		{"neighbourhood with focus", Options{Scope: ScopeNeighbourhood, Focus: "lease"}, false},
		{"unknown scope", Options{Scope: "nearby"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"graphviz fdp", Options{Renderer: RendererGraphviz, Engine: "fdp"}, false},
		{"unknown engine", Options{Engine: "twopi-ish"}, true},
		{"negative scale", Options{Scale: -2}, true},
		{"bad format", Options{Formats: []string{"gif"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Renderer: RendererRelgraph, Engine: "dot"}
	if got := opts.ArtifactKeyOpts(FormatSVG); got.Scale != 0 || got.Engine != "" {
		t.Errorf("svg key opts should ignore scale and engine: %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 3 {
		t.Errorf("png key opts Scale = %g, want 3", got.Scale)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); got.Engine != "dot" {
		t.Errorf("dot key opts Engine = %q, want dot", got.Engine)
	}
}

func TestSolve(t *testing.T) {
	ctx := context.Background()
	b := testBundle()

	l, err := Solve(ctx, b, Options{Focus: "lease", Seed: 7})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(l.Nodes) != 4 || len(l.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges; want 4, 2", len(l.Nodes), len(l.Edges))
	}
	if l.Focus != "lease" || l.Seed != 7 {
		t.Errorf("Focus=%q Seed=%d, want lease 7", l.Focus, l.Seed)
	}

	again, _ := Solve(ctx, b, Options{Focus: "lease", Seed: 7})
	for id, p := range l.Positions {
		if again.Positions[id] != p {
			t.Errorf("seeded solve not reproducible for %s: %v vs %v", id, p, again.Positions[id])
		}
	}
}

func TestSolveNeighbourhood(t *testing.T) {
	l, err := Solve(context.Background(), testBundle(), Options{Focus: "memo", Scope: ScopeNeighbourhood, Seed: 1})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("neighbourhood of memo has %d nodes, want 3", len(l.Nodes))
	}
	if _, ok := l.Node("lonely"); ok {
		t.Error("unrelated document should be excluded")
	}
}

func TestSolveUnknownFocus(t *testing.T) {
	_, err := Solve(context.Background(), testBundle(), Options{Focus: "missing"})
	if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Solve with unknown focus error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Solve(ctx, testBundle(), Options{}); err == nil {
		t.Error("Solve should fail on a cancelled context")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	l, err := Solve(ctx, testBundle(), Options{Focus: "lease", Seed: 3})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	artifacts, err := Render(ctx, l, Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT, FormatOps, FormatPNG},
		Legend:  true,
		Titles:  true,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if svg := string(artifacts[FormatSVG]); !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "<title>lease.pdf</title>") {
		t.Errorf("svg output missing root or titles:\n%.200s", svg)
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot output = %.40q", artifacts[FormatDOT])
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png output lacks PNG signature")
	}
	if len(artifacts[FormatOps]) == 0 {
		t.Error("ops output is empty")
	}

	exported, err := graph.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if exported.Focus != "lease" || len(exported.Nodes) != 4 {
		t.Errorf("json layout focus=%q nodes=%d", exported.Focus, len(exported.Nodes))
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	ctx := context.Background()
	l, _ := Solve(ctx, testBundle(), Options{Seed: 5})
	data, err := graph.MarshalLayout(graph.Export(l))
	if err != nil {
		t.Fatal(err)
	}
	first, err := Render(ctx, l, Options{Formats: []string{FormatOps}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := RenderFromLayoutData(ctx, data, Options{Formats: []string{FormatOps}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first[FormatOps], second[FormatOps]) {
		t.Error("rendering a reloaded layout should paint the same operations")
	}
}

type recordingCacheHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingCacheHooks) record(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, s)
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.record("hit:" + keyType)
}
func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.record("miss:" + keyType)
}
func (h *recordingCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set:" + keyType)
}

func (h *recordingCacheHooks) count(event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e == event {
			n++
		}
	}
	return n
}

func TestRunnerCaching(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()
	b := testBundle()
	opts := Options{Focus: "lease", Seed: 11, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, b, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss the cache: %+v", first.CacheInfo)
	}
	if first.BundleHash == "" || first.Stats.NodeCount != 4 {
		t.Errorf("result = hash %q, nodes %d", first.BundleHash, first.Stats.NodeCount)
	}

	second, err := r.Execute(ctx, b, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}
	for id, p := range first.Layout.Positions {
		if second.Layout.Positions[id] != p {
			t.Errorf("cached position of %s = %v, want %v", id, second.Layout.Positions[id], p)
		}
	}

	if got := hooks.count("hit:layout"); got != 1 {
		t.Errorf("layout hits = %d, want 1", got)
	}
	if got := hooks.count("set:artifact"); got != 2 {
		t.Errorf("artifact writes = %d, want 2", got)
	}

	refreshed, err := r.Execute(ctx, b, Options{Focus: "lease", Seed: 11, Formats: []string{FormatSVG, FormatJSON}, Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache reads: %+v", refreshed.CacheInfo)
	}
}

func TestRunnerUnseededSkipsCache(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	for range 2 {
		res, err := r.Execute(context.Background(), testBundle(), Options{Formats: []string{FormatJSON}})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
			t.Error("unseeded runs must never hit the cache")
		}
	}
	if len(hooks.events) != 0 {
		t.Errorf("unseeded runs touched the cache: %v", hooks.events)
	}
}

type failingCache struct{ cache.NullCache }

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cache.ErrUnavailable
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrUnavailable
}

func TestRunnerCacheFailuresAreNotFatal(t *testing.T) {
	r := NewRunner(&failingCache{}, nil, nil)
	res, err := r.Execute(context.Background(), testBundle(), Options{Seed: 2, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Execute with a failing cache: %v", err)
	}
	if len(res.Artifacts[FormatDOT]) == 0 {
		t.Error("expected dot output")
	}
}
