package bucket

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/minio/minio-go/v7"
)

// Store uploads an image and returns its public URL. contentType is sniffed
// from the data when empty.
func (b *Bucket) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", gerr.InvalidProduct("image is empty")
	}
	if len(data) > b.MaxImageSize {
		return "", gerr.InvalidProduct(fmt.Sprintf("image must be less than %d bytes", b.MaxImageSize))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !isAllowedImage(contentType) {
		return "", gerr.InvalidProduct("only JPG and PNG images are allowed")
	}

	fp := b.constructFullPath(b.ImageFolder, uuid.NewString(), fileExtensionFromContentType(contentType))

	r := bytes.NewReader(data)
	_, err := b.client.PutObject(ctx, b.S3BucketName, fp, r, int64(r.Len()), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=31536000",
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("can't put object %s: %w", fp, err)
	}

	slog.Default().DebugContext(ctx, "stored image", slog.String("key", fp))
	return b.getCDNURL(fp), nil
}

// Release removes the object behind ref. The default image is never removed.
func (b *Bucket) Release(ctx context.Context, ref string) error {
	if ref == "" || ref == b.Config.DefaultImage {
		return nil
	}
	key := b.keyFromURL(ref)
	if err := b.client.RemoveObject(ctx, b.S3BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("can't remove object %s: %w", key, err)
	}
	return nil
}
