// Package store holds the document collections behind every console page.
// Collections are schemaless in spirit: each one is a named set of
// documents keyed by an opaque string id, read in full and ordered by a
// per-collection default field.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"food-delivery-admin/models"
)

var ErrNotFound = errors.New("document not found")

// Where is an equality constraint on a stored field.
type Where struct {
	Field string
	Value any
}

// Sort is the default ordering applied by Load.
type Sort struct {
	Field string
	Desc  bool
}

var (
	NewestFirst = Sort{Field: "created_at", Desc: true}
	BySortOrder = Sort{Field: "sort_order"}
	ByTimestamp = Sort{Field: "timestamp"}
	Unordered   = Sort{}
)

// Source is the pull side of a collection.
type Source[T any] interface {
	Load(ctx context.Context, where ...Where) ([]T, error)
}

type Collection[T any] interface {
	Source[T]
	Name() string
	Get(ctx context.Context, id string) (*T, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Create assigns an id when the document has none and stamps timestamps.
	Create(ctx context.Context, doc *T) error
	// Update writes only the given fields plus a refreshed updated_at.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// DocPtr constrains the pointer form of a stored model.
type DocPtr[T any] interface {
	*T
	models.Document
}

func prepare[T any, P DocPtr[T]](doc *T, now time.Time) {
	p := P(doc)
	if p.DocID() == "" {
		p.SetDocID(uuid.NewString())
	}
	p.Stamp(now)
}

func withUpdatedAt(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["updated_at"] = now
	return out
}
