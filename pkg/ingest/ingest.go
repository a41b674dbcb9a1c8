// Package ingest turns an uploaded ZIP archive into analysed, related and
// persisted documents.
//
// Every regular file in the archive becomes one [docs.Document]; its file
// type is guessed from the extension. Documents are analysed concurrently
// (bounded by [Ingester.Concurrency]), then related as a batch, and finally
// written to the store together with the archive metadata.
//
// Progress is reported as a percentage:
//
//	0..90   analysis, advancing as each document completes
//	95      relationships proposed
//	100     persisted
package ingest

import (
	"archive/zip"
	"context"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/doctriage/pkg/analysis"
	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/observability"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// DefaultConcurrency bounds parallel analysis when Concurrency is zero.
const DefaultConcurrency = 4

// MaxEntries rejects archives with more documents than a review can use.
const MaxEntries = 10000

// Progress receives a percentage in [0, 100]. Calls are serialised and
// never decrease.
type Progress func(percent int)

// Result is the outcome of one ingest.
type Result struct {
	Archive       docs.Archive
	Documents     []docs.Document
	Relationships []docs.Relationship
}

// Ingester wires an analyzer to a store.
type Ingester struct {
	Store       storage.Store
	Analyzer    analysis.Analyzer
	Concurrency int
	Logger      *log.Logger
}

// New returns an ingester with the default concurrency.
func New(store storage.Store, analyzer analysis.Analyzer, logger *log.Logger) *Ingester {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingester{Store: store, Analyzer: analyzer, Concurrency: DefaultConcurrency, Logger: logger}
}

// Ingest reads the archive from r (size bytes) and persists its contents.
// progress may be nil.
func (in *Ingester) Ingest(ctx context.Context, archiveName string, r io.ReaderAt, size int64, progress Progress) (res *Result, err error) {
	start := time.Now()
	observability.Pipeline().OnIngestStart(ctx, archiveName)
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Documents)
		}
		observability.Pipeline().OnIngestComplete(ctx, archiveName, n, time.Since(start), err)
	}()

	if err := errors.ValidateFileName(archiveName); err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "read %s", archiveName)
	}

	documents, err := entries(zr, archiveName)
	if err != nil {
		return nil, err
	}
	report := newReporter(progress)
	report.set(0)
	in.logger().Debug("extracted archive", "archive", archiveName, "documents", len(documents))

	if err := in.analyze(ctx, documents, report); err != nil {
		return nil, err
	}

	ids := make([]string, len(documents))
	for i := range documents {
		ids[i] = documents[i].ID
	}
	rels, err := in.Analyzer.Relate(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "relate documents")
	}
	for i := range documents {
		documents[i].RelatedDocuments = docs.RelatedIDs(documents[i].ID, rels)
	}
	report.set(95)

	archive := docs.Archive{
		ID:            docs.NewID(),
		FileName:      archiveName,
		DocumentCount: len(documents),
		UploadDate:    time.Now().UTC(),
	}
	if err := in.Store.UpsertDocuments(ctx, documents...); err != nil {
		return nil, err
	}
	if err := in.Store.UpsertRelationships(ctx, rels...); err != nil {
		return nil, err
	}
	if err := in.Store.UpsertArchive(ctx, archive); err != nil {
		return nil, err
	}
	report.set(100)

	in.logger().Info("ingested archive",
		"archive", archiveName,
		"documents", len(documents),
		"relationships", len(rels),
		"duration", time.Since(start).Round(time.Millisecond))

	return &Result{Archive: archive, Documents: documents, Relationships: rels}, nil
}

func (in *Ingester) logger() *log.Logger {
	if in.Logger == nil {
		return log.Default()
	}
	return in.Logger
}

// analyze replaces each document with its analysed version in place.
func (in *Ingester) analyze(ctx context.Context, documents []docs.Document, report *reporter) error {
	limit := in.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		mu   sync.Mutex
		done int
	)
	for i := range documents {
		g.Go(func() error {
			result, err := in.Analyzer.Analyze(gctx, documents[i])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "analyze %s", documents[i].FileName)
			}
			documents[i] = analysis.Apply(documents[i], result)

			mu.Lock()
			done++
			pct := done * 90 / len(documents)
			mu.Unlock()
			report.set(pct)
			return nil
		})
	}
	return g.Wait()
}

// entries creates one unread document per regular file, skipping
// directories, hidden files and resource-fork folders.
func entries(zr *zip.Reader, archiveName string) ([]docs.Document, error) {
	if len(zr.File) > MaxEntries {
		return nil, errors.New(errors.ErrCodeInvalidArchive, "%s has %d entries (max %d)", archiveName, len(zr.File), MaxEntries)
	}
	var out []docs.Document
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || skip(f.Name) {
			continue
		}
		if err := errors.ValidatePath(f.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "entry %q", f.Name)
		}
		name := path.Base(f.Name)
		d, err := docs.NewDocument(name, docs.FileTypeOf(name), int64(f.UncompressedSize64))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "entry %q", f.Name)
		}
		d.SourceArchive = archiveName
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArchive, "%s contains no documents", archiveName)
	}
	return out, nil
}

func skip(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), ".")
}

// reporter serialises progress callbacks and keeps them monotonic.
type reporter struct {
	mu   sync.Mutex
	last int
	fn   Progress
}

func newReporter(fn Progress) *reporter {
	return &reporter{fn: fn, last: -1}
}

func (r *reporter) set(pct int) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if pct <= r.last {
		return
	}
	r.last = pct
	r.fn(pct)
}

// Relate asks the analyzer for relationships across every stored document,
// stores them and refreshes each document's related list. Existing
// relationships for the same pairs are replaced.
func (in *Ingester) Relate(ctx context.Context) ([]docs.Relationship, error) {
	documents, err := in.Store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(documents))
	for i := range documents {
		ids[i] = documents[i].ID
	}
	rels, err := in.Analyzer.Relate(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "relate documents")
	}
	if err := in.Store.UpsertRelationships(ctx, rels...); err != nil {
		return nil, err
	}

	all, err := in.Store.ListRelationships(ctx)
	if err != nil {
		return nil, err
	}
	for i := range documents {
		documents[i].RelatedDocuments = docs.RelatedIDs(documents[i].ID, all)
	}
	if err := in.Store.UpsertDocuments(ctx, documents...); err != nil {
		return nil, err
	}
	in.logger().Info("related documents", "documents", len(documents), "relationships", len(rels))
	return rels, nil
}
