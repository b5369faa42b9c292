package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkDocumentStore_Save measures upserts into a file-backed database,
// the workload of a full overwrite sync.
func BenchmarkDocumentStore_Save(b *testing.B) {
	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())
	defer db.Close()

	store := sqlite.NewDocumentStore(db)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := &refbook.Document{
			Identifier: fmt.Sprintf("std::symbol%d", i%500),
			SourceURL:  fmt.Sprintf("https://en.cppreference.com/w/cpp/symbol%d", i%500),
			Content:    fmt.Sprintf("<html><body><h1>symbol %d</h1><p>Lorem ipsum dolor sit amet.</p></body></html>", i),
		}
		if err := store.Save(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}
