package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/pages"
	"food-delivery-admin/upload"
)

// readImage loads the optional "image" part of a multipart form. Files
// above the ceiling are rejected without being read in full.
func readImage(c *gin.Context) (*upload.Image, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return openImage(fh)
}

func openImage(fh *multipart.FileHeader) (*upload.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, upload.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &upload.Image{Name: fh.Filename, Data: data}, nil
}

// bindPart decodes the JSON "data" part of a multipart form into v
func bindPart(c *gin.Context, v any) error {
	raw := c.PostForm("data")
	if raw == "" {
		return fmt.Errorf("missing data field")
	}
	return json.Unmarshal([]byte(raw), v)
}

// CreateCategoryWithImage uploads the image first and stores its URL on
// the new category
func (h *Handler) CreateCategoryWithImage(c *gin.Context) {
	draft := h.pages.Categories.Draft()
	if err := bindPart(c, &draft); err != nil {
		badRequest(c, err)
		return
	}
	img, err := readImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.pages.Categories.CreateWithImage(c.Request.Context(), &draft, img); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "item": draft})
}

// UpdateCategoryWithImage replaces a category and, when given, its image
func (h *Handler) UpdateCategoryWithImage(c *gin.Context) {
	var form pages.CategoryForm
	if err := bindPart(c, &form); err != nil {
		badRequest(c, err)
		return
	}
	img, err := readImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.pages.Categories.UpdateWithImage(c.Request.Context(), c.Param("id"), &form, img); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "imageUrl": form.ImageURL})
}
