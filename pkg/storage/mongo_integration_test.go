//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/matzehuels/doctriage/pkg/docs"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DOCTRIAGE_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx := context.Background()
	s, err := OpenMongoStore(ctx, MongoOptions{URI: uri, Database: "doctriage_test_" + docs.NewID()[:8]})
	if err != nil {
		t.Skipf("mongo not available: %v", err)
	}
	defer func() {
		_ = s.documents.Database().Drop(ctx)
		_ = s.Close()
	}()
	testStore(t, s)
}
