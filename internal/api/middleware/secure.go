package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders adds the usual browser hardening headers.
func SecureHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
	return s.Handler
}
