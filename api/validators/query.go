package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded to [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}

	value, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("el parámetro %s debe ser numérico", key)).
			WithDetails(map[string]string{key: "debe ser numérico"})
	case value < min || value > max:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("el parámetro %s está fuera de rango", key)).
			WithDetails(map[string]string{key: fmt.Sprintf("debe estar entre %d y %d", min, max)})
	}
	return value, nil
}
