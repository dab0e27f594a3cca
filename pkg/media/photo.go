// Package media validates uploaded rider photos.
package media

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMaxPhotoBytes int64 = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
}

var allowedImageDescription = humanReadableList(sortedKeys(allowedImageTypes))

// PhotoError describes why a photo payload was rejected.
type PhotoError struct {
	Field  string
	Reason string
}

func (e *PhotoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PhotoValidator checks photo payloads by content, not by client-declared type.
type PhotoValidator struct {
	maxBytes int64
}

// NewPhotoValidator builds a validator; maxBytes <= 0 selects the default cap.
func NewPhotoValidator(maxBytes int64) *PhotoValidator {
	if maxBytes <= 0 {
		maxBytes = defaultMaxPhotoBytes
	}
	return &PhotoValidator{maxBytes: maxBytes}
}

// Validate returns the sniffed mime type of data, or a *PhotoError.
func (v *PhotoValidator) Validate(field string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &PhotoError{Field: field, Reason: "el archivo está vacío"}
	}
	if int64(len(data)) > v.maxBytes {
		return "", &PhotoError{Field: field, Reason: fmt.Sprintf("el archivo supera %d bytes", v.maxBytes)}
	}

	detected := mimetype.Detect(data)
	mediaType := strings.ToLower(detected.String())
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if _, ok := allowedImageTypes[mediaType]; !ok {
		return "", &PhotoError{
			Field:  field,
			Reason: fmt.Sprintf("tipo %s no permitido; se aceptan %s", mediaType, allowedImageDescription),
		}
	}
	return mediaType, nil
}

func sortedKeys(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for value := range set {
		list = append(list, value)
	}
	sort.Strings(list)
	return list
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s o %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s o %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
