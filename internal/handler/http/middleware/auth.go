package middleware

import (
	"context"
	"net/http"

	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/babralau/timesheet-web-go/internal/handler/http/response"
	"github.com/babralau/timesheet-web-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const userKey contextKey = "current_user"

// AuthRequired verifies the session token and stores the rebuilt
// identity context on the request. Mount after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.Error(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}
			if tokenType, _ := claims["type"].(string); tokenType != "access" {
				response.Error(w, http.StatusUnauthorized, "Invalid token type", nil)
				return
			}
			u := jwtService.UserFromClaims(claims)
			if u.EmployeeID == 0 {
				response.Error(w, http.StatusUnauthorized, "Invalid token claims", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ManagerRequired gates the approval and export surfaces.
func ManagerRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		if !u.IsManager && !u.HasRole(user.RoleAdmin) {
			response.Error(w, http.StatusForbidden, "Manager role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the identity context AuthRequired stored.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok
}
