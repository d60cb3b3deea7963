package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/user"
	"github.com/orgpulse/attendance-backend-go/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		if role != string(user.RoleAdmin) {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTrainer requires trainer or admin role
func RequireTrainer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrTrainerAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrTrainerAccessRequired)
			return
		}

		if !user.Role(roleStr).CanCheckIntoClasses() {
			response.HandleError(w, user.ErrTrainerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
