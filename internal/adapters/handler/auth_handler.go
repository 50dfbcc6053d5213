package handler

import (
	"errors"
	"net/http"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/metrics"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

const (
	loggedOutMessage     = "You have been logged out."
	resetSentMessage     = "If the details match an account, a password reset link has been sent to its email address."
	resetDoneMessage     = "Your password has been updated. Please log in."
	passwordMismatchText = "Passwords do not match."
)

type AuthHandler struct {
	authService  ports.AuthService
	resetService ports.PasswordResetService
	cookies      *session.Cookies
	pages        *Renderer
}

func NewAuthHandler(auth ports.AuthService, reset ports.PasswordResetService, cookies *session.Cookies, pages *Renderer) *AuthHandler {
	return &AuthHandler{authService: auth, resetService: reset, cookies: cookies, pages: pages}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Redirect string `json:"redirect"`
}

type ResetRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DashboardPath is where a freshly logged in user of role lands.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleStudent:
		return "/student_dashboard"
	case domain.RoleParent:
		return "/parent_dashboard"
	case domain.RoleTeacher:
		return "/teacher_dashboard"
	case domain.RoleAdministrator:
		return "/admin_dashboard"
	}
	return "/"
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "home"
	}
	h.pages.Render(w, r, "home", PageData{Title: "Welcome", ActiveTab: tab})
}

func (h *AuthHandler) login(r *http.Request, req LoginRequest) (*domain.Session, error) {
	role := domain.Role(req.Role)
	sess, err := h.authService.Login(r.Context(), req.Username, req.Password, role)
	metrics.LoginAttempt(role, err == nil)

	var aerr *domain.AuthError
	switch {
	case errors.As(err, &aerr):
		logger.LogInfo("login rejected", "username", req.Username, "role", req.Role, "reason", string(aerr.Reason))
	case err != nil:
		logger.LogError("login failed", err, "username", req.Username)
	default:
		logger.LogInfo("login successful", "username", sess.Username, "role", string(sess.Role))
	}
	return sess, err
}

// Login handles the HTML login form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Role:     r.PostForm.Get("role"),
	}

	sess, err := h.login(r, req)
	if err != nil {
		status, body := statusFor(err)
		h.pages.RenderStatus(w, r, status, "home", PageData{
			Title:     "Welcome",
			Error:     body.Error,
			ActiveTab: domain.Role(req.Role).Lower(),
		})
		return
	}

	if err := h.cookies.Set(w, sess); err != nil {
		logger.LogError("failed to sign session cookie", err)
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, DashboardPath(sess.Role), http.StatusSeeOther)
}

func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.login(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.cookies.Set(w, sess); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful",
		Username: sess.Username,
		Role:     string(sess.Role),
		Name:     sess.Name,
		Redirect: DashboardPath(sess.Role),
	})
}

func (h *AuthHandler) endSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.cookies.SessionID(r); ok {
		if err := h.authService.Logout(r.Context(), id); err != nil {
			logger.LogError("failed to delete session", err)
		}
	}
	h.cookies.Clear(w)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	session.SetFlash(w, loggedOutMessage)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) APILogout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	writeJSON(w, http.StatusOK, MessageResponse{Message: loggedOutMessage})
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, "reset_password", PageData{Title: "Reset password"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := h.resetService.RequestPasswordReset(r.Context(),
		r.PostForm.Get("username"), r.PostForm.Get("email"), domain.Role(r.PostForm.Get("role")))
	if err != nil {
		status, body := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.LogError("password reset request failed", err)
		}
		h.pages.RenderStatus(w, r, status, "reset_password", PageData{Title: "Reset password", Error: body.Error})
		return
	}
	session.SetFlash(w, resetSentMessage)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) APIResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.resetService.RequestPasswordReset(r.Context(), req.Username, req.Email, domain.Role(req.Role)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: resetSentMessage})
}

func (h *AuthHandler) ResetConfirmPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, "reset_password_confirm", PageData{
		Title: "Choose a new password",
		Data:  r.URL.Query().Get("token"),
	})
}

func (h *AuthHandler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	token := r.PostForm.Get("token")
	password := r.PostForm.Get("password")
	data := PageData{Title: "Choose a new password", Data: token}

	if password != r.PostForm.Get("confirm_password") {
		data.Error = passwordMismatchText
		h.pages.RenderStatus(w, r, http.StatusBadRequest, "reset_password_confirm", data)
		return
	}
	if err := h.resetService.ConfirmPasswordReset(r.Context(), token, password); err != nil {
		status, body := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.LogError("password reset confirm failed", err)
		}
		data.Error = body.Error
		h.pages.RenderStatus(w, r, status, "reset_password_confirm", data)
		return
	}
	session.SetFlash(w, resetDoneMessage)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
