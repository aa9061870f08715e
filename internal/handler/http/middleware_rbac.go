// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/models"
)

// requireRoles returns an HTTP middleware admitting only callers whose
// verified role is in the allowed set. ADMIN passes every gate regardless
// of the allow-list. It must run after [Handler.auth], which puts the
// identity into the request context.
//
// A caller with a valid token but the wrong role gets HTTP 403 with code
// AUTHZ_FORBIDDEN. Every denial also emits an audit event; authorization
// never depends on the audit trail being writable.
func (h *Handler) requireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				log.Error().Msg("role check reached without identity in context")
				h.writeErrorMessage(w, ErrEmptyAuthorizationHeader.Error(), codeTokenMissing, http.StatusUnauthorized)
				return
			}

			if !identity.Role.In(allowed...) && identity.Role != models.RoleAdmin {
				log.Warn().
					Int64("id", identity.UserID).
					Str("role", string(identity.Role)).
					Str("path", r.URL.Path).
					Msg("access denied: insufficient role")
				h.denyAccess(w, r, identity)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authorizedForOwner reports whether the caller may act on the resources of
// ownerID: either they are the owner, or they hold the ADMIN role.
func authorizedForOwner(identity models.Identity, ownerID int64) bool {
	return identity.UserID == ownerID || identity.Role == models.RoleAdmin
}

// denyAccess writes the 403 envelope and records the denial in the audit
// trail.
func (h *Handler) denyAccess(w http.ResponseWriter, r *http.Request, identity models.Identity) {
	h.audit.Record(r.Context(), models.AuditEvent{
		Actor:    actorFromIdentity(identity),
		Action:   models.AuditActionAuthorize,
		Outcome:  models.AuditOutcomeDenied,
		Resource: r.Method + " " + r.URL.Path,
		Origin:   utils.GetClientOriginFromContext(r.Context()),
	})

	h.writeErrorMessage(w, "access denied", codeForbidden, http.StatusForbidden)
}

func actorFromIdentity(identity models.Identity) string {
	return strconv.FormatInt(identity.UserID, 10)
}
