package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestValidate(t *testing.T) {
	mtype, err := Validate(Image{Name: "logo.png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mtype)

	_, err = Validate(Image{Name: "notes.txt", Data: []byte("just some text")})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = Validate(Image{Name: "empty.png"})
	assert.ErrorIs(t, err, ErrInvalidImage)

	big := append(bytes.Clone(pngHeader), make([]byte, MaxSize)...)
	_, err = Validate(Image{Name: "huge.png", Data: big})
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "5.0 MiB")
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "categories/category_1700000000000_my_photo.png",
		ObjectKey("categories", "my photo.png", at))
	assert.Equal(t, "banners/banner_1700000000000_a_b_c.jpg",
		ObjectKey("banners", " a  b/c.jpg ", at))
}

func TestStoreWritesToLocalBucket(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewLocalBucket(root, "http://cdn.test/media/")
	require.NoError(t, err)

	at := time.UnixMilli(1700000000000)
	url, err := Store(context.Background(), bucket, "categories", Image{Name: "logo.png", Data: pngHeader}, at)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/media/categories/category_1700000000000_logo.png", url)

	data, err := os.ReadFile(filepath.Join(root, "categories", "category_1700000000000_logo.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestStoreRejectsBeforeWriting(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewLocalBucket(root, "http://cdn.test/media")
	require.NoError(t, err)

	_, err = Store(context.Background(), bucket, "categories", Image{Name: "a.txt", Data: []byte("hello")}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidImage)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalBucketKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	bucket := &LocalBucket{Root: root}

	ref, err := bucket.Put(context.Background(), "../../escape.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "../../escape.png", ref)

	_, err = os.Stat(filepath.Join(root, "escape.png"))
	assert.NoError(t, err)
}
