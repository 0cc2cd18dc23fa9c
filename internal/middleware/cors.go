package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS wraps next so browsers on the allowed origins can call the API.
// A single "*" allows any origin.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(next)
}
