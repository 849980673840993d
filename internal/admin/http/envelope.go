package http

import (
	"errors"
	"net/http"

	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/pkg/httpx"
)

// Envelope mirrors the upstream API's response shape so the dashboard sees
// one envelope regardless of whether the gateway or the upstream answered.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	httpx.WriteJSON(w, status, Envelope{Success: true, Code: "OK", Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	httpx.WriteJSON(w, status, Envelope{Success: false, Code: code, Message: message})
}

// writeServiceError maps pipeline and gateway errors onto HTTP statuses.
// Upstream error codes pass through in the envelope untouched.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "invalid credentials")
	case errors.Is(err, service.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many failed attempts, try again later")
	case errors.Is(err, session.ErrRevoked), errors.Is(err, session.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session is not valid")
	default:
		var gerr *gateway.Error
		if errors.As(err, &gerr) {
			writeError(w, statusForCode(gerr.Code), gerr.Code, gerr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func statusForCode(code string) int {
	switch code {
	case gateway.CodeAuthTokenMissing:
		return http.StatusUnauthorized
	case gateway.CodeSessionError:
		return http.StatusInternalServerError
	case gateway.CodeNetworkError:
		return http.StatusBadGateway
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
