package bucket

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

const (
	contentTypeJPEG = "image/jpeg"
	contentTypeJPG  = "image/jpg"
	contentTypePNG  = "image/png"
)

func isAllowedImage(contentType string) bool {
	switch contentType {
	case contentTypeJPEG, contentTypeJPG, contentTypePNG:
		return true
	}
	return false
}

func fileExtensionFromContentType(contentType string) string {
	switch contentType {
	case contentTypeJPEG, contentTypeJPG:
		return "jpg"
	case contentTypePNG:
		return "png"
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) > 1 {
			return parts[1]
		}
		return contentType
	}
}

func (b *Bucket) constructFullPath(folder, fileName, ext string) string {
	return path.Clean(path.Join(b.BaseFolder, folder, fileName) + "." + ext)
}

func (b *Bucket) urlPrefix() string {
	if b.SubdomainEndpoint != "" {
		return fmt.Sprintf("https://%s/", b.SubdomainEndpoint)
	}
	return fmt.Sprintf("https://%s.%s/", b.S3BucketName, b.S3Endpoint)
}

func (b *Bucket) getCDNURL(filePath string) string {
	return b.urlPrefix() + filePath
}

// keyFromURL maps a stored reference back to its object key. References that
// are not URLs of this bucket are taken as keys.
func (b *Bucket) keyFromURL(ref string) string {
	return strings.TrimPrefix(strings.TrimPrefix(ref, b.urlPrefix()), "/")
}

// B64Image is a decoded data URL.
type B64Image struct {
	Content     []byte
	ContentType string
}

// DecodeB64Image parses "data:[<mediatype>];base64,[<data>]".
func DecodeB64Image(raw string) (*B64Image, error) {
	const (
		dataPrefix   = "data:"
		base64Marker = ";base64,"
	)
	if !strings.HasPrefix(raw, dataPrefix) {
		return nil, fmt.Errorf("invalid base64 image format: expected 'data:[mediatype];base64,[data]'")
	}
	parts := strings.SplitN(strings.TrimPrefix(raw, dataPrefix), base64Marker, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid base64 image format: expected 'data:[mediatype];base64,[data]'")
	}

	content, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("can't decode base64 image: %w", err)
	}
	return &B64Image{
		ContentType: parts[0],
		Content:     content,
	}, nil
}
