package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// principalFrom returns the authenticated principal for a request, or nil.
func principalFrom(r *http.Request) *domain.Principal {
	p, _ := r.Context().Value(principalKey).(*domain.Principal)
	return p
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// require gates a route on a capability. Unauthenticated requests get 401
// (the login redirect), authenticated-but-unauthorized requests get 403
// (the no-access page) — never a partial render.
func (h *HTTPHandler) require(capability string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := h.auth.Session(bearerToken(r))
		if principal == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		if !principal.Can(capability) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "no access"})
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// requireAuth gates a route on authentication only.
func (h *HTTPHandler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := h.auth.Session(bearerToken(r))
		if principal == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}
