package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/service"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, verifies it via the token service, and — on success — stores the
// decoded identity in the request context under [utils.IdentityCtxKey]
// before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized and a stable
// machine-readable code:
//   - AUTH_TOKEN_MISSING — the header is absent or carries no token value.
//   - AUTH_TOKEN_EXPIRED — the token signature is fine but it has expired.
//   - AUTH_TOKEN_INVALID — anything else (bad signature, wrong audience,
//     wrong issuer, malformed token).
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			h.writeErrorMessage(w, ErrEmptyAuthorizationHeader.Error(), codeTokenMissing, http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			h.writeErrorMessage(w, err.Error(), codeTokenMissing, http.StatusUnauthorized)
			return
		}
		identity, err := h.services.TokenService.VerifyAccessToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("token expired")
				h.writeErrorMessage(w, service.ErrTokenIsExpired.Error(), codeTokenExpired, http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occured during token verification")
				h.writeErrorMessage(w, service.ErrTokenIsInvalid.Error(), codeTokenInvalid, http.StatusUnauthorized)
				return
			}
		}

		// Store the verified identity in the context so that downstream
		// handlers can authorize without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.IdentityCtxKey, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
