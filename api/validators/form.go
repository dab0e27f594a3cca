package validators

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
)

const multipartMemory = 8 << 20

// ParseMultipartForm bounds the request body to maxBytes and parses it.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "la solicitud es demasiado grande").
				WithDetails(map[string]any{"max_bytes": maxBytes})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "se esperaba multipart/form-data")
	}
	return nil
}

// FormValue returns the trimmed value of a parsed multipart field.
func FormValue(r *http.Request, field string, maxLen int) string {
	if r.MultipartForm == nil {
		return ""
	}
	values := r.MultipartForm.Value[field]
	if len(values) == 0 {
		return ""
	}
	return SanitizeString(values[0], maxLen)
}

// SanitizeString trims input and cuts it to at most maxLen runes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	return string([]rune(trimmed)[:maxLen])
}

// ReadFormFile reads the first file uploaded under field, up to maxBytes.
func ReadFormFile(r *http.Request, field string, maxBytes int64) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "falta un archivo obligatorio").
			WithDetails(map[string]string{field: "es obligatorio"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "no se pudo leer el archivo").
			WithDetails(map[string]string{field: "no se pudo leer"})
	}
	if int64(len(data)) > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el archivo es demasiado grande").
			WithDetails(map[string]string{field: fmt.Sprintf("máximo %d bytes", maxBytes)})
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el archivo está vacío").
			WithDetails(map[string]string{field: "está vacío"})
	}
	return data, nil
}
