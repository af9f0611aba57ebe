package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID reuses a sane inbound X-Request-Id or mints one, and stores it in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderXRequestID))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(pkgctx.WithRequestID(r.Context(), reqID)))
	})
}
