package mcp

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/mark3labs/mcp-go/server"
)

// Handler returns the streamable HTTP transport for the catalog tools, ready
// to be mounted at /mcp. Authentication is left to the caller.
func Handler(svc *catalog.Service) http.Handler {
	return server.NewStreamableHTTPServer(NewServer(svc), server.WithStateLess(true))
}

// BearerAuth rejects requests whose Authorization header does not carry
// apiKey as a bearer token. An empty apiKey disables the check.
func BearerAuth(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
			http.Error(w, `{"error":"missing Authorization header"}`, http.StatusUnauthorized)
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="catalog", error="invalid_token"`)
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
