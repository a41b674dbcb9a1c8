package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/doctriage/pkg/observability"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.LayoutsTotal == nil || r.HTTPRequestsTotal == nil || r.StorageOperationsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	// Two registries must not collide.
	_ = NewRegistry()
}

func TestPipelineHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnLayoutComplete(ctx, 4, 3, time.Millisecond)
	r.OnLayoutComplete(ctx, 2, 1, time.Millisecond)
	if got := testutil.ToFloat64(r.LayoutsTotal); got != 2 {
		t.Errorf("layouts = %v, want 2", got)
	}

	r.OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, nil)
	r.OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("no converter"))
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("png", "success")); got != 1 {
		t.Errorf("png renders = %v", got)
	}
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("pdf", "error")); got != 1 {
		t.Errorf("pdf errors = %v", got)
	}

	r.OnIngestComplete(ctx, "a.zip", 5, time.Second, nil)
	r.OnIngestComplete(ctx, "b.zip", 9, time.Second, errors.New("bad zip"))
	if got := testutil.ToFloat64(r.IngestedDocuments); got != 5 {
		t.Errorf("ingested = %v, want 5", got)
	}
}

func TestInteractionAndCacheHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnHitTest(ctx, "click", true)
	r.OnHitTest(ctx, "hover", false)
	r.OnHitTest(ctx, "hover", false)
	if got := testutil.ToFloat64(r.HitTestsTotal.WithLabelValues("hover", "false")); got != 2 {
		t.Errorf("hover misses = %v, want 2", got)
	}

	r.OnCacheHit(ctx, "artifact")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 128)
	if got := testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("artifact", "hit")); got != 1 {
		t.Errorf("hits = %v", got)
	}
	if got := testutil.ToFloat64(r.CacheWrittenBytes.WithLabelValues("artifact")); got != 128 {
		t.Errorf("bytes = %v", got)
	}
}

func TestStorageAndHTTPHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnStorageOp(ctx, "memory", "get_document", time.Millisecond, nil)
	r.OnStorageOp(ctx, "memory", "get_document", time.Millisecond, errors.New("not found"))
	if got := testutil.ToFloat64(r.StorageOperationsTotal.WithLabelValues("memory", "get_document", "error")); got != 1 {
		t.Errorf("storage errors = %v", got)
	}

	r.OnRequest(ctx, "GET", "/api/v1/documents")
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnResponse(ctx, "GET", "/api/v1/documents", 200, time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/documents", "200")); got != 1 {
		t.Errorf("requests = %v", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	r := NewRegistry()
	r.Install()

	observability.Cache().OnCacheMiss(context.Background(), "layout")
	if got := testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("layout", "miss")); got != 1 {
		t.Errorf("installed hooks not used: %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnLayoutComplete(context.Background(), 1, 0, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "doctriage_layouts_total 1") {
		t.Errorf("exposition missing layout counter:\n%s", body)
	}
}
