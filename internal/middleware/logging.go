package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": r.Header.Get(requestIDHeader),
				"ua":         r.Header.Get("User-Agent"),
			}).Trace(" ====> request")

			if reqID := r.Header.Get(requestIDHeader); reqID != "" {
				w.Header().Set(requestIDHeader, reqID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
