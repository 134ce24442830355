package pages

import (
	"context"
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
	"food-delivery-admin/upload"
)

const categoryPrefix = "categories"

func CategorySpec() page.Spec[models.Category] {
	return page.Spec[models.Category]{
		Name: "categories",
		ID:   func(c models.Category) string { return c.ID },
		Search: func(c models.Category) []string {
			return []string{c.Name, c.Description, c.ID}
		},
		Filters: map[string]page.Filter[models.Category]{
			"active": activeFilter(func(c models.Category) bool { return c.IsActive }),
		},
		Stats: func(items []models.Category, _ time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Counts["active"] = page.Count(items, func(c models.Category) bool { return c.IsActive })
			s.Counts["withImages"] = page.Count(items, func(c models.Category) bool { return c.ImageURL != "" })
			return s
		},
		Draft: func() models.Category {
			return models.Category{IsActive: true}
		},
	}
}

func activeFilter[T any](active func(T) bool) page.Filter[T] {
	return func(item T, value string, _ time.Time) bool {
		switch value {
		case "active", "true":
			return active(item)
		case "inactive", "false":
			return !active(item)
		}
		return true
	}
}

// CategoryForm is the full edit form of a category.
type CategoryForm struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder" binding:"min=0"`
}

func (f *CategoryForm) Fields() map[string]any {
	return map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"image_url":   f.ImageURL,
		"is_active":   f.IsActive,
		"sort_order":  f.SortOrder,
	}
}

// Categories adds the image upload path to the category page. The image is
// always stored before the document write; a failed upload writes nothing.
type Categories struct {
	*page.Controller[models.Category]
	bucket upload.Bucket
}

func NewCategories(coll store.Collection[models.Category], bucket upload.Bucket, env Env) *Categories {
	return &Categories{
		Controller: page.ForCollection(CategorySpec(), coll, options[models.Category](env)...),
		bucket:     bucket,
	}
}

// CreateWithImage stores img, when given, then creates the category.
func (p *Categories) CreateWithImage(ctx context.Context, draft *models.Category, img *upload.Image) error {
	if err := page.Validate(draft); err != nil {
		return err
	}
	if err := validateImage(img); err != nil {
		return err
	}
	if img != nil {
		url, err := p.store(ctx, img)
		if err != nil {
			return err
		}
		draft.ImageURL = url
	}
	return p.Create(ctx, draft)
}

// UpdateWithImage checks the category still exists, stores img, when given,
// then writes the form.
func (p *Categories) UpdateWithImage(ctx context.Context, id string, form *CategoryForm, img *upload.Image) error {
	if err := page.Validate(form); err != nil {
		return err
	}
	if err := validateImage(img); err != nil {
		return err
	}
	if err := p.Ensure(ctx, id); err != nil {
		return err
	}
	if img != nil {
		url, err := p.store(ctx, img)
		if err != nil {
			return err
		}
		form.ImageURL = url
	}
	return p.Update(ctx, id, form)
}

func (p *Categories) store(ctx context.Context, img *upload.Image) (string, error) {
	url, err := upload.Store(ctx, p.bucket, categoryPrefix, *img, p.Now())
	if err != nil {
		return "", &page.WriteError{Op: "upload image for", Page: "category", Err: err}
	}
	return url, nil
}

func validateImage(img *upload.Image) error {
	if img == nil {
		return nil
	}
	if _, err := upload.Validate(*img); err != nil {
		return &page.ValidationError{Err: err}
	}
	return nil
}
