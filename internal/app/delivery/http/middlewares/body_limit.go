package middlewares

import (
	"net/http"
)

// BodyLimit caps the request body at the configured size. Reads past the limit
// fail, which surfaces as a decode or multipart parse error in the handler.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limitInMegabyte := m.InternalConfig.App.RequestBodyLimitInMegabyte
		if limitInMegabyte > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, int64(limitInMegabyte)<<20)
		}
		next.ServeHTTP(w, r)
	})
}
