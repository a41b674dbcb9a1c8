package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

func sampleBundle() Bundle {
	return NewBundle(
		[]docs.Document{
			{ID: "d1", FileName: "lease.pdf", FileType: "application/pdf", Status: docs.StatusUnread, IsKey: true},
			{ID: "d2", FileName: "notice.eml", FileType: "message/rfc822", Status: docs.StatusReviewed},
		},
		[]docs.Relationship{{SourceID: "d1", TargetID: "d2", Type: docs.RelReferenced, Strength: 0.7}},
	)
}

func TestBundleRoundTrip(t *testing.T) {
	b := sampleBundle()
	data, err := MarshalBundle(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"relationshipType": "referenced"`)) {
		t.Errorf("wire format changed:\n%s", data)
	}
	got, err := UnmarshalBundle(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != BundleVersion || len(got.Documents) != 2 || len(got.Relationships) != 1 {
		t.Errorf("round trip = %+v", got)
	}
	if d, ok := got.Document("d1"); !ok || !d.IsKey {
		t.Errorf("Document(d1) = %+v, %v", d, ok)
	}
}

func TestBundleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := WriteBundleFile(sampleBundle(), path); err != nil {
		t.Fatal(err)
	}
	b, err := ReadBundleFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Documents) != 2 {
		t.Errorf("documents = %d", len(b.Documents))
	}
	if _, err := ReadBundleFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestReadBundleInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidFormat},
		{"future version", `{"version": 99}`, errors.ErrCodeInvalidFormat},
		{"missing id", `{"documents": [{"fileName": "a.pdf"}]}`, errors.ErrCodeInvalidFormat},
		{"duplicate id", `{"documents": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeInvalidFormat},
		{"bad type", `{"relationships": [{"sourceId": "a", "targetId": "b", "relationshipType": "cites", "strength": 0.5}]}`, errors.ErrCodeInvalidRelationship},
		{"bad strength", `{"relationships": [{"sourceId": "a", "targetId": "b", "relationshipType": "similar", "strength": 2}]}`, errors.ErrCodeInvalidRelationship},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBundle(strings.NewReader(tt.json))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadBundleKeepsDanglingRelationships(t *testing.T) {
	b, err := ReadBundle(strings.NewReader(`{"documents": [{"id": "a"}],
		"relationships": [{"sourceId": "a", "targetId": "ghost", "relationshipType": "similar", "strength": 0.5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Relationships) != 1 {
		t.Errorf("relationships = %d, want 1", len(b.Relationships))
	}
}

func solved() layout.Layout {
	nodes := []layout.Node{
		{ID: "d1", Label: "lease.pdf", Category: docs.CategoryPDF, IsKey: true},
		{ID: "d2", Label: "notice.eml", Category: docs.CategoryEmail, IsRelevant: true},
	}
	edges := []layout.Edge{{Source: "d1", Target: "d2", Type: docs.RelReferenced, Strength: 0.5}}
	return layout.Solve(nodes, edges, 400, 300, layout.WithSeed(1), layout.WithFocus("d1"))
}

func TestExport(t *testing.T) {
	l := solved()
	got := Export(l)

	if got.Width != 400 || got.Height != 300 || got.Focus != "d1" || got.Seed != 1 {
		t.Errorf("header = %+v", got)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d", len(got.Nodes), len(got.Edges))
	}

	focus := got.Nodes[0]
	if focus.Role != styles.RoleCurrent || focus.Radius != styles.CurrentRadius || focus.Fill != "rgb(79, 70, 229)" {
		t.Errorf("focus node = %+v", focus)
	}
	if focus.Glyph != "PDF" {
		t.Errorf("glyph = %q", focus.Glyph)
	}
	p, _ := l.Position("d1")
	if focus.X != p.X || focus.Y != p.Y {
		t.Errorf("position = (%v,%v), want %v", focus.X, focus.Y, p)
	}
	if got.Nodes[1].Role != styles.RoleRelevant || got.Nodes[1].Radius != styles.DefaultRadius {
		t.Errorf("relevant node = %+v", got.Nodes[1])
	}

	e := got.Edges[0]
	if e.Stroke != "rgba(75, 85, 99, 0.6)" || e.Width != 2 || len(e.Dash) != 2 {
		t.Errorf("edge = %+v", e)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := solved()
	data, err := MarshalLayout(Export(l))
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	parsed := back.Parse()

	for _, n := range l.Nodes {
		want, _ := l.Position(n.ID)
		got, ok := parsed.Position(n.ID)
		if !ok || got != want {
			t.Errorf("%s position = %v, want %v", n.ID, got, want)
		}
	}
	if n, _ := parsed.Node("d1"); !n.IsCurrent || !n.IsKey {
		t.Errorf("d1 flags lost: %+v", n)
	}
	if len(parsed.Edges) != 1 || parsed.Edges[0].Type != docs.RelReferenced {
		t.Errorf("edges = %+v", parsed.Edges)
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	for _, in := range []string{`nope`, `{"width": 0, "height": 10}`} {
		if _, err := UnmarshalLayout([]byte(in)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("UnmarshalLayout(%s) err = %v", in, err)
		}
	}
}
