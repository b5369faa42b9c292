package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("saves and loads documents", func(t *testing.T) {
		t.Parallel()

		store := mock.NewMemoryStore()
		ctx := context.Background()

		err := store.Save(ctx, &refbook.Document{Identifier: "std::sort", SourceURL: "https://example.org/sort", Content: "<p>sort</p>"})
		require.NoError(t, err)

		ok, err := store.Exists(ctx, "std::sort")
		require.NoError(t, err)
		assert.True(t, ok)

		doc, err := store.Load(ctx, "std::sort")
		require.NoError(t, err)
		assert.Equal(t, "<p>sort</p>", doc.Content)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("returns ENOTFOUND for unknown identifiers", func(t *testing.T) {
		t.Parallel()

		store := mock.NewMemoryStore()

		_, err := store.Load(context.Background(), "std::vector")

		assert.Equal(t, refbook.ENOTFOUND, refbook.ErrorCode(err))
	})
}
