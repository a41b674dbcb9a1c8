package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/doctriage/pkg/observability"
)

type recordingHooks struct {
	mu  sync.Mutex
	ops []string
}

func (h *recordingHooks) OnStorageOp(_ context.Context, backend, op string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "err"
	}
	h.ops = append(h.ops, backend+":"+op+":"+status)
}

func TestInstrument(t *testing.T) {
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetStorageHooks(h)

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), "memory")
	if Instrument(s, "memory") != s {
		t.Error("Instrument should not wrap twice")
	}

	_ = s.UpsertDocuments(ctx, doc("a", ""))
	_, _ = s.GetDocument(ctx, "missing")

	want := []string{"memory:upsert_documents:ok", "memory:get_document:err"}
	if len(h.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", h.ops, want)
	}
	for i := range want {
		if h.ops[i] != want[i] {
			t.Errorf("ops[%d] = %s, want %s", i, h.ops[i], want[i])
		}
	}
}
