package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCollection[T any, P DocPtr[T]] struct {
	db   *gorm.DB
	name string
	sort Sort
	now  func() time.Time
}

func NewGorm[T any, P DocPtr[T]](db *gorm.DB, name string, sort Sort) *GormCollection[T, P] {
	return &GormCollection[T, P]{db: db, name: name, sort: sort, now: time.Now}
}

func (c *GormCollection[T, P]) Name() string { return c.name }

func (c *GormCollection[T, P]) Load(ctx context.Context, where ...Where) ([]T, error) {
	query := c.db.WithContext(ctx).Model(new(T))
	for _, w := range where {
		query = query.Where(clause.Eq{Column: clause.Column{Name: w.Field}, Value: w.Value})
	}
	if c.sort.Field != "" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: c.sort.Field}, Desc: c.sort.Desc})
	}

	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (c *GormCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *GormCollection[T, P]) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *GormCollection[T, P]) Create(ctx context.Context, doc *T) error {
	prepare[T, P](doc, c.now())
	return c.db.WithContext(ctx).Create(doc).Error
}

func (c *GormCollection[T, P]) Update(ctx context.Context, id string, fields map[string]any) error {
	res := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(withUpdatedAt(fields, c.now()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *GormCollection[T, P]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
