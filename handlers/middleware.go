package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"writeflow.com/emotion-board/models"
	"writeflow.com/emotion-board/services"
)

type contextKey int

const userContextKey contextKey = 0

// Authenticate reads an `Authorization: Bearer` header and, when the token
// verifies and the subject resolves to a user, attaches that user to the
// request context. Every failure mode leaves the request anonymous instead
// of aborting it; handlers that need an identity reject its absence
// themselves.
func Authenticate(tokens *services.TokenService, users services.UserStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ParseAndVerify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user attached by Authenticate, if
// any.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok
}

// requireUser writes a 401 and returns false when the request carries no
// authenticated identity.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := CurrentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}
