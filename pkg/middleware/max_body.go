package middleware

import "net/http"

// MaxRequestSize caps request bodies at maxBytes. Reads past the cap fail
// inside the handler's decoder, which surfaces as a bad-request response.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
