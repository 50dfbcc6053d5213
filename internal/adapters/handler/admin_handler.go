package handler

import (
	"net/http"
	"strconv"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

const dashboardAuditEntries = 10

type AdminHandler struct {
	admin ports.AdminService
	pages *Renderer
}

func NewAdminHandler(admin ports.AdminService, pages *Renderer) *AdminHandler {
	return &AdminHandler{admin: admin, pages: pages}
}

type UpdateUserRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type AdminPage struct {
	Users  []domain.User
	Audit  []domain.AuditEntry
	Fields []string
	Roles  []domain.Role
}

func actor(r *http.Request) string {
	return session.FromContext(r.Context()).Username
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	var audit []domain.AuditEntry
	if err == nil {
		audit, err = h.admin.RecentAudit(r.Context(), dashboardAuditEntries)
	}
	h.pages.RenderResult(w, r, "admin_dashboard", "Administrator dashboard", &AdminPage{Users: users, Audit: audit}, err)
}

func (h *AdminHandler) ManageUsersPage(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	h.pages.RenderResult(w, r, "manage_users_permissions", "Manage users and permissions", &AdminPage{
		Users:  users,
		Fields: domain.UpdatableUserFields,
		Roles:  domain.Roles,
	}, err)
}

func (h *AdminHandler) ManageUsers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	err := h.admin.UpdateUser(r.Context(), actor(r), username, r.PostForm.Get("field"), r.PostForm.Get("value"))
	redirectWithResult(w, r, "/manage_users_permissions", "User "+username+" updated.", err)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.UpdateUser(r.Context(), actor(r), r.PathValue("username"), req.Field, req.Value); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User updated"})
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.admin.RecentAudit(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
