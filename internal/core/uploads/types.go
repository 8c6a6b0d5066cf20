package uploads

import (
	"errors"
	"io"
	"path"
	"strings"
)

// MediaURLPrefix is the URL path under which stored images are served.
const MediaURLPrefix = "/media/"

var (
	// ErrUnsupportedType is returned for files that are not gif/jpeg/png/webp images
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when an image exceeds the configured size limit
	ErrTooLarge = errors.New("image too large")

	// ErrInvalidRef is returned for references that escape the storage root
	ErrInvalidRef = errors.New("invalid image reference")
)

// Image is an uploaded file as received from a multipart form.
type Image struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// URL returns the public URL of a stored image reference.
func URL(ref string) string {
	if ref == "" {
		return ""
	}
	return MediaURLPrefix + strings.TrimPrefix(path.Clean("/"+ref), "/")
}

// normalizeMimeType maps aliases onto the canonical MIME type
func normalizeMimeType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch mimeType {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	default:
		return mimeType
	}
}

// extensionFor returns the file extension stored for an accepted MIME type,
// or "" when the type is not accepted.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/gif":
		return ".gif"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
