package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/respond"
)

// Recover turns a handler panic into a 500 error envelope and logs the
// stack.  http.ErrAbortHandler is re-panicked so net/http can abort the
// connection as intended.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			rid := RequestIDFromContext(r.Context())
			zap.S().Errorw("panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"request_id", rid,
				"stack", string(debug.Stack()),
			)
			respond.Internal(w, rid)
		}()
		next.ServeHTTP(w, r)
	})
}
