package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/doctriage/pkg/analysis"
	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/storage"
)

func buildZip(t *testing.T, names ...string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, n := range names {
		f, err := w.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasSuffix([]byte(n), []byte("/")) {
			_, _ = f.Write([]byte("content of " + n))
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	in := New(store, analysis.NewMock(analysis.WithSeed(3)), nil)
	in.Concurrency = 2

	zr := buildZip(t,
		"contracts/",
		"contracts/lease.pdf",
		"contracts/amendment.docx",
		"mail/notice.eml",
		"budget.xlsx",
		".DS_Store",
		"__MACOSX/contracts/._lease.pdf",
	)

	var (
		mu       sync.Mutex
		progress []int
	)
	res, err := in.Ingest(ctx, "matter.zip", zr, zr.Size(), func(p int) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(res.Documents) != 4 {
		t.Fatalf("documents = %d, want 4", len(res.Documents))
	}
	names := make([]string, len(res.Documents))
	for i, d := range res.Documents {
		names[i] = d.FileName
		if d.SourceArchive != "matter.zip" || d.Summary == "" || d.Status != docs.StatusUnread {
			t.Errorf("document not analysed or attributed: %+v", d)
		}
	}
	if !slices.Equal(names, []string{"lease.pdf", "amendment.docx", "notice.eml", "budget.xlsx"}) {
		t.Errorf("names = %v", names)
	}
	if res.Documents[2].Category() != docs.CategoryEmail {
		t.Errorf("notice.eml category = %s", res.Documents[2].Category())
	}

	if !slices.IsSorted(progress) || progress[0] != 0 || progress[len(progress)-1] != 100 {
		t.Errorf("progress = %v", progress)
	}

	stored, _ := store.DocumentsByArchive(ctx, "matter.zip")
	if len(stored) != 4 {
		t.Errorf("stored documents = %d", len(stored))
	}
	archives, _ := store.ListArchives(ctx)
	if len(archives) != 1 || archives[0].DocumentCount != 4 {
		t.Errorf("archives = %+v", archives)
	}
	rels, _ := store.ListRelationships(ctx)
	if len(rels) != len(res.Relationships) {
		t.Errorf("stored %d relationships, result has %d", len(rels), len(res.Relationships))
	}
	for _, d := range res.Documents {
		if want := docs.RelatedIDs(d.ID, res.Relationships); !slices.Equal(d.RelatedDocuments, want) {
			t.Errorf("%s related = %v, want %v", d.FileName, d.RelatedDocuments, want)
		}
	}
}

func TestIngestInvalidArchive(t *testing.T) {
	ctx := context.Background()
	in := New(storage.NewMemoryStore(), analysis.NewMock(), nil)

	tests := []struct {
		name    string
		archive string
		data    *bytes.Reader
		code    errors.Code
	}{
		{"not a zip", "x.zip", bytes.NewReader([]byte("plain text")), errors.ErrCodeInvalidArchive},
		{"empty zip", "x.zip", buildZip(t), errors.ErrCodeInvalidArchive},
		{"only folders", "x.zip", buildZip(t, "a/", "a/b/"), errors.ErrCodeInvalidArchive},
		{"traversal", "x.zip", buildZip(t, "../evil.pdf"), errors.ErrCodeInvalidArchive},
		{"bad archive name", "../x.zip", buildZip(t, "a.pdf"), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Ingest(ctx, tt.archive, tt.data, tt.data.Size(), nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

type failingAnalyzer struct{ analysis.Analyzer }

func (failingAnalyzer) Analyze(context.Context, docs.Document) (analysis.Result, error) {
	return analysis.Result{}, stderrors.New("model offline")
}

func TestIngestAnalyzerFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	in := New(store, failingAnalyzer{analysis.NewMock()}, nil)

	zr := buildZip(t, "a.pdf", "b.pdf")
	if _, err := in.Ingest(ctx, "x.zip", zr, zr.Size(), nil); err == nil {
		t.Fatal("expected error")
	}
	all, _ := store.ListDocuments(ctx)
	if len(all) != 0 {
		t.Errorf("partial ingest persisted %d documents", len(all))
	}
}

func TestRelate(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	var documents []docs.Document
	for _, name := range []string{"a.pdf", "b.pdf", "c.docx", "d.eml", "e.txt", "f.pdf"} {
		d, err := docs.NewDocument(name, docs.FileTypeOf(name), 10)
		if err != nil {
			t.Fatal(err)
		}
		documents = append(documents, d)
	}
	if err := store.UpsertDocuments(ctx, documents...); err != nil {
		t.Fatal(err)
	}

	in := New(store, analysis.NewMock(analysis.WithSeed(9)), nil)
	rels, err := in.Relate(ctx)
	if err != nil {
		t.Fatalf("Relate: %v", err)
	}
	stored, _ := store.ListRelationships(ctx)
	if len(stored) != len(rels) {
		t.Errorf("stored %d relationships, proposed %d", len(stored), len(rels))
	}
	for _, d := range documents {
		got, err := store.GetDocument(ctx, d.ID)
		if err != nil {
			t.Fatal(err)
		}
		want := docs.RelatedIDs(d.ID, stored)
		if !slices.Equal(got.RelatedDocuments, want) {
			t.Errorf("%s related = %v, want %v", d.FileName, got.RelatedDocuments, want)
		}
	}
}
