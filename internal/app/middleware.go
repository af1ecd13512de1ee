package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/rest"
	"github.com/univent/univent/pkg/user"
)

// publicRoutes need no bearer token: account registration, sign-in, the club
// secret preflight, the published events board, and the faculty and club
// listings the signup form reads before any token exists. Keyed by method so
// the admin-only writes sharing these paths stay behind the token check.
var publicRoutes = map[string]string{
	"/api/auth/signup":           "POST",
	"/api/auth/signin":           "POST",
	"/api/club":                  "GET",
	"/api/club/validate":         "GET",
	"/api/event/events-approved": "GET",
	"/api/faculty":               "GET",
}

func isPublicRoute(req *http.Request) bool {
	method, found := publicRoutes[req.URL.Path]
	return found && method == req.Method
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Verify the bearer token and propagate its claims into the context.
	// Expired tokens are flagged so clients can distinguish "log in again"
	// from "token rejected".
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if isPublicRoute(req) {
				next.ServeHTTP(w, req)
				return
			}

			header := req.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				rest.WriteError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := deps.Issuer.Verify(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					log.Debug("rejected expired token")
					rest.WriteJSON(w, http.StatusUnauthorized, rest.ErrorResponse{
						Error:   "Token expired",
						Expired: true,
					})
					return
				}
				log.Debug("rejected invalid token")
				rest.WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := auth.WithClaims(req.Context(), claims)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

// requireRoles gates a handler to the given roles. The token is already
// verified by the time this runs; only the role check happens here.
func requireRoles(next http.HandlerFunc, roles ...user.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		claims, err := auth.CurrentClaims(req.Context())
		if err != nil {
			rest.WriteError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		for _, role := range roles {
			if user.Role(claims.Role) == role {
				next(w, req)
				return
			}
		}
		rest.WriteError(w, http.StatusForbidden, "Insufficient role")
	}
}
