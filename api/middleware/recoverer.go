package middleware

import (
	"fmt"
	"net/http"

	"github.com/bicisena/bicisena-backend/api/responses"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
)

// Recoverer turns handler panics into a 500 envelope, logged once by
// responses.WriteError. http.ErrAbortHandler is re-raised so net/http can
// drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  fmt.Sprint(rec),
						"method": r.Method,
						"path":   r.URL.Path,
					})
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "error interno del servidor"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
