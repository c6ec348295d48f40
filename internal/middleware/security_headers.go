package middleware

import "net/http"

// SecurityHeaders sets the browser hardening headers appropriate for a JSON
// API. HSTS is only emitted when the deployment terminates TLS, otherwise the
// header would poison plain-HTTP local setups.
func SecurityHeaders(isHTTPS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
			// JSON only, nothing should ever execute or be framed
			headers.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
