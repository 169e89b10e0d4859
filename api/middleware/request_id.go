package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags each request with a correlation id. An inbound header wins so
// ids survive proxies; otherwise one is minted. The id is echoed back to the
// client and attached to every log line via the context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
