package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/metrics"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

type AuthMiddleware struct {
	auth    ports.AuthService
	cookies *session.Cookies
}

func NewAuthMiddleware(auth ports.AuthService, cookies *session.Cookies) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, cookies: cookies}
}

// LoadSession resolves the session cookie and stores the session in the
// request context. Requests without a valid session pass through anonymous.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := m.resolve(w, r); sess != nil {
			r = r.WithContext(session.WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) *domain.Session {
	if sess := session.FromContext(r.Context()); sess != nil {
		return sess
	}
	id, ok := m.cookies.SessionID(r)
	if !ok {
		return nil
	}
	sess, err := m.auth.Session(r.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.LogError("failed to load session", err)
		}
		m.cookies.Clear(w)
		return nil
	}
	return sess
}

// RequireRole guards a page. Without a session of the required role the
// visitor is sent back to the login page with a flash message, and next
// never runs.
func (m *AuthMiddleware) RequireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := m.resolve(w, r)
		if err := services.RequireRole(sess, role); err != nil {
			m.deny(sess, role, r)
			session.SetFlash(w, err.Error())
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(session.WithSession(r.Context(), sess)))
	}
}

// RequireRoleJSON is RequireRole for API routes: it answers 401 with the
// same message instead of redirecting.
func (m *AuthMiddleware) RequireRoleJSON(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := m.resolve(w, r)
		if err := services.RequireRole(sess, role); err != nil {
			m.deny(sess, role, r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		next(w, r.WithContext(session.WithSession(r.Context(), sess)))
	}
}

func (m *AuthMiddleware) deny(sess *domain.Session, role domain.Role, r *http.Request) {
	metrics.GuardDenied(string(role))
	args := []any{"path", r.URL.Path, "required_role", string(role)}
	if sess != nil {
		args = append(args, "username", sess.Username, "role", string(sess.Role))
	}
	logger.LogInfo("role guard denied request", args...)
}
