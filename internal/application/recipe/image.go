package recipe

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImageStorage persists recipe images under opaque keys
type ImageStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	// URL resolves a key to an address clients can fetch the image from
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DefaultMaxImageSize caps decoded images when no limit is configured
const DefaultMaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURI decodes "data:image/<type>;base64,<payload>". The declared
// type must be one of png, jpeg, gif or webp and must match the content.
func DecodeDataURI(uri string, maxSize int64) (*Image, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}

	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return nil, shared.NewValidationError("Image must be a base64 data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, shared.NewValidationError("Image must be a base64 data URI")
	}
	mediaType, ok := strings.CutSuffix(strings.ToLower(header), ";base64")
	if !ok {
		return nil, shared.NewValidationError("Image must be base64 encoded")
	}
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return nil, shared.NewValidationError("Image type %q is not supported", mediaType)
	}

	if int64(base64.StdEncoding.DecodedLen(len(payload))) > maxSize+2 {
		return nil, shared.NewValidationError("Image exceeds %d bytes", maxSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, shared.NewValidationError("Image is not valid base64")
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("Image is empty")
	}
	if int64(len(data)) > maxSize {
		return nil, shared.NewValidationError("Image exceeds %d bytes", maxSize)
	}
	if sniffed := http.DetectContentType(data); sniffed != mediaType {
		return nil, shared.NewValidationError("Image content does not match %s", mediaType)
	}

	return &Image{Data: data, ContentType: mediaType, Extension: ext}, nil
}

// NewImageKey returns a fresh storage key for an image with extension ext
func NewImageKey(ext string) string {
	return "recipes/" + uuid.NewString() + "." + ext
}
