package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/MKhiriev/marketplace-auth/internal/utils"
)

const forwardedForHeader = "X-Forwarded-For"

// withClientOrigin records the caller's network origin in the request
// context so that audit events emitted deeper in the stack can carry it.
// The first X-Forwarded-For entry wins when a proxy set it; otherwise the
// remote address host is used.
func (h *Handler) withClientOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := clientOrigin(r)
		ctx := context.WithValue(r.Context(), utils.ClientOriginCtxKey, origin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientOrigin(r *http.Request) string {
	if forwarded := r.Header.Get(forwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
