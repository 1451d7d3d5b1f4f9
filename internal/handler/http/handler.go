package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

// authorize resolves the caller and checks action against the resource owner.
// It writes the error response itself and reports whether to continue.
func authorize(w http.ResponseWriter, r *http.Request, action user.Permission, ownerEmployeeID string) (user.Subject, bool) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingSubject)
		return user.Subject{}, false
	}
	if !user.Can(subject, action, ownerEmployeeID) {
		response.HandleError(w, user.ErrForbidden)
		return subject, false
	}
	return subject, true
}

// authorizeHidden is authorize for single-record reads: a caller without
// access gets hidden, the same not-found error a missing id produces.
func authorizeHidden(w http.ResponseWriter, r *http.Request, action user.Permission, ownerEmployeeID string, hidden error) bool {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingSubject)
		return false
	}
	if !user.Can(subject, action, ownerEmployeeID) {
		response.HandleError(w, hidden)
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
