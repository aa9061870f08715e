package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/service"
	"github.com/MKhiriev/marketplace-auth/internal/store"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/internal/validators"
	"github.com/MKhiriev/marketplace-auth/models"
)

type errorMapping struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorMapping{
	service.ErrInvalidCredentials:  {http.StatusUnauthorized, codeInvalidCredentials},
	service.ErrAccountLocked:       {http.StatusUnauthorized, codeAccountLocked},
	service.ErrAccountInactive:     {http.StatusUnauthorized, codeTokenInvalid},
	service.ErrWrongPassword:       {http.StatusUnauthorized, codeWrongPassword},
	service.ErrTokenIsExpired:      {http.StatusUnauthorized, codeTokenExpired},
	service.ErrTokenIsInvalid:      {http.StatusUnauthorized, codeTokenInvalid},
	service.ErrRefreshTokenRevoked: {http.StatusUnauthorized, codeTokenRevoked},

	validators.ErrInvalidEmail:      {http.StatusBadRequest, codeValidationFailed},
	validators.ErrPasswordTooShort:  {http.StatusBadRequest, codeValidationFailed},
	validators.ErrPasswordTooWeak:   {http.StatusBadRequest, codeValidationFailed},
	validators.ErrInvalidRole:       {http.StatusBadRequest, codeValidationFailed},
	validators.ErrEmptyPassword:     {http.StatusBadRequest, codeValidationFailed},
	validators.ErrEmptyRefreshToken: {http.StatusBadRequest, codeValidationFailed},

	store.ErrEmailAlreadyExists:   {http.StatusConflict, codeEmailTaken},
	store.ErrNoUserWasFound:       {http.StatusNotFound, codeNotFound},
	store.ErrRefreshTokenNotFound: {http.StatusUnauthorized, codeTokenInvalid},

	store.ErrBuildingSQLQuery:   {http.StatusInternalServerError, codeInternal},
	store.ErrExecutingQuery:     {http.StatusInternalServerError, codeInternal},
	store.ErrExecutingStatement: {http.StatusInternalServerError, codeInternal},
	store.ErrScanningRow:        {http.StatusInternalServerError, codeInternal},
}

func mappingFromError(err error) errorMapping {
	for target, mapping := range errorStatusMap {
		if errors.Is(err, target) {
			return mapping
		}
	}
	return errorMapping{http.StatusInternalServerError, codeInternal}
}

// writeError translates a service/store error into the machine-readable
// error envelope. Unexpected errors are logged with full context but
// surfaced to the caller as an opaque 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	mapping := mappingFromError(err)

	message := err.Error()
	if mapping.status == http.StatusInternalServerError {
		log.Err(err).Msg("unexpected error occured while handling request")
		message = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: message, Code: mapping.code}, mapping.status)
}

// writeErrorMessage writes the envelope for transport-level failures that
// never reached the service layer (broken JSON, missing headers).
func (h *Handler) writeErrorMessage(w http.ResponseWriter, message, code string, statusCode int) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message, Code: code}, statusCode)
}
