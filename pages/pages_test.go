package pages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"food-delivery-admin/config"
	"food-delivery-admin/store"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func testEnv() Env {
	return Env{Clock: func() time.Time { return testNow }, Location: time.UTC}
}

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

func seed[T any](t *testing.T, coll store.Collection[T], docs ...*T) {
	t.Helper()
	for _, d := range docs {
		require.NoError(t, coll.Create(context.Background(), d))
	}
}
