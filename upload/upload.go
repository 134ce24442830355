// Package upload validates operator images and stores them in a bucket
// before any document references them.
package upload

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the largest accepted image.
const MaxSize = 5 * 1024 * 1024

var ErrInvalidImage = errors.New("invalid image")

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is a file picked by the operator.
type Image struct {
	Name string
	Data []byte
}

// Validate checks the size ceiling and sniffs the content type against the
// allow-list. It returns the detected MIME type.
func Validate(img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidImage, img.Name)
	}
	if len(img.Data) > MaxSize {
		return "", fmt.Errorf("%w: %s is %s, images must be smaller than %s", ErrInvalidImage,
			img.Name, humanize.IBytes(uint64(len(img.Data))), humanize.IBytes(MaxSize))
	}

	mtype := mimetype.Detect(img.Data)
	if !allowed[mtype.String()] {
		return "", fmt.Errorf("%w: %s has type %s, allowed types are JPEG, PNG, GIF and WebP",
			ErrInvalidImage, img.Name, mtype.String())
	}
	return mtype.String(), nil
}

var whitespace = regexp.MustCompile(`\s+`)

// ObjectKey builds a collision-resistant key such as
// categories/category_1700000000000_my_photo.png.
func ObjectKey(prefix, name string, at time.Time) string {
	singular := strings.TrimSuffix(prefix, "s")
	if strings.HasSuffix(prefix, "ies") {
		singular = strings.TrimSuffix(prefix, "ies") + "y"
	}
	clean := whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	clean = strings.ReplaceAll(clean, "/", "_")
	return fmt.Sprintf("%s/%s_%d_%s", prefix, singular, at.UnixMilli(), clean)
}
