package http

import (
	"net/http"
	"strings"

	"everydollar/internal/core"
	applog "everydollar/internal/log"
)

// userHandler is a handler that runs on behalf of an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, user core.User)

// requireUser resolves the bearer token to a user once and hands that user
// to next. Requests without a valid token never reach next.
func (s *Server) requireUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			if core.IsAuthError(err) {
				applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).WarnContext(r.Context(), "Unauthenticated request",
					applog.FieldPath, r.URL.Path,
					applog.FieldError, err)
			}
			s.writeError(w, r, err)
			return
		}

		ctx := applog.NewContext(r.Context(), applog.FromContext(r.Context()).With(applog.FieldUserID, user.ID))
		next(w, r.WithContext(ctx), user)
	})
}

// bearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
