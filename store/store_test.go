package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-admin/config"
	"food-delivery-admin/models"
	"food-delivery-admin/store"
)

func newBackend(t *testing.T) store.Backend {
	t.Helper()
	db, err := config.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.Backend{Gorm: db}
}

func TestGormCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.Category](newBackend(t), models.CollCategories, store.BySortOrder)

	second := &models.Category{Name: "Drinks", SortOrder: 2}
	first := &models.Category{Name: "Pizza", SortOrder: 1, IsActive: true}
	require.NoError(t, coll.Create(ctx, second))
	require.NoError(t, coll.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	items, err := coll.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Pizza", items[0].Name)
	assert.Equal(t, "Drinks", items[1].Name)

	require.NoError(t, coll.Update(ctx, second.ID, map[string]any{"name": "Cold Drinks"}))
	got, err := coll.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cold Drinks", got.Name)
	assert.Equal(t, 2, got.SortOrder)

	filtered, err := coll.Load(ctx, store.Where{Field: "is_active", Value: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)

	require.NoError(t, coll.Delete(ctx, first.ID))
	ok, err := coll.Exists(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormCollectionMissingDocument(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.Banner](newBackend(t), models.CollBanners, store.BySortOrder)

	_, err := coll.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, coll.Update(ctx, "nope", map[string]any{"title_en": "x"}), store.ErrNotFound)
	assert.ErrorIs(t, coll.Delete(ctx, "nope"), store.ErrNotFound)
}

type recorder[T any] struct {
	mu    sync.Mutex
	calls [][]T
}

func (r *recorder[T]) record(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, items)
}

func (r *recorder[T]) last() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestLivePushesAfterWrites(t *testing.T) {
	ctx := context.Background()
	live := store.NewLive(store.Open[models.ChatMessage](newBackend(t), models.CollChatMessages, store.ByTimestamp), nil)

	rec := &recorder[models.ChatMessage]{}
	unsub, err := live.Subscribe(ctx, rec.record, store.Where{Field: "chat_id", Value: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())
	assert.Equal(t, 1, live.Subscribers())

	now := time.Now()
	require.NoError(t, live.Create(ctx, &models.ChatMessage{ChatID: "c1", Text: "hi", Timestamp: now}))
	require.NoError(t, live.Create(ctx, &models.ChatMessage{ChatID: "c2", Text: "other", Timestamp: now}))

	assert.Equal(t, 3, rec.count())
	require.Len(t, rec.last(), 1)
	assert.Equal(t, "hi", rec.last()[0].Text)

	unsub()
	unsub()
	assert.Equal(t, 0, live.Subscribers())

	require.NoError(t, live.Create(ctx, &models.ChatMessage{ChatID: "c1", Text: "later", Timestamp: now}))
	assert.Equal(t, 3, rec.count())
}
