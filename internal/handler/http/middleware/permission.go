package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

// RequirePermission lets the request through when the caller's role holds any
// of permissions. Ownership of the target resource is checked by the handler.
func RequirePermission(permissions ...user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, user.ErrMissingSubject.Error())
				return
			}

			for _, p := range permissions {
				if user.HasPermission(subject.Role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required one of %v, but user role is '%s'", permissions, subject.Role))
		})
	}
}
