package upload

import (
	"context"
	"time"
)

// Store validates an image, writes it to bucket under a generated key and
// returns its public URL.
func Store(ctx context.Context, bucket Bucket, prefix string, img Image, at time.Time) (string, error) {
	contentType, err := Validate(img)
	if err != nil {
		return "", err
	}

	ref, err := bucket.Put(ctx, ObjectKey(prefix, img.Name, at), img.Data, contentType)
	if err != nil {
		return "", err
	}
	return bucket.URL(ref), nil
}
