package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNotDataURL  = errors.New("not a base64 data URL")
	ErrBadEncoding = errors.New("data URL payload is not valid base64")
)

var (
	imageDataURLPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
	httpURLPattern      = regexp.MustCompile(`^https?://`)
)

// DataURL is a decoded `data:<media>;base64,<payload>` value.
type DataURL struct {
	MediaType string
	Data      []byte
}

// ParseDataURL decodes a base64 data URL.
func ParseDataURL(raw string) (DataURL, error) {
	raw = strings.TrimSpace(raw)
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return DataURL{}, ErrNotDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURL{}, ErrNotDataURL
	}

	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return DataURL{}, ErrNotDataURL
	}
	// 忽略 charset 等附加参数
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURL{}, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}

	return DataURL{MediaType: strings.ToLower(mediaType), Data: data}, nil
}

// IsImageDataURL reports whether raw starts like `data:image/<type>;base64,`.
func IsImageDataURL(raw string) bool {
	return imageDataURLPattern.MatchString(raw)
}

// IsHTTPURL reports whether raw is an http(s) URL.
func IsHTTPURL(raw string) bool {
	return httpURLPattern.MatchString(raw)
}

// IsImageRef accepts what the vision providers accept as image_url.
func IsImageRef(raw string) bool {
	return IsImageDataURL(raw) || IsHTTPURL(raw)
}
