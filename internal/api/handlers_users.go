package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// redirectFor maps an account role to its post-signin landing path.
func redirectFor(role string) string {
	switch role {
	case "vendor":
		return "/vendor/dashboard"
	case "authority":
		return "/authority/dashboard"
	default:
		return "/dashboard"
	}
}

func validRole(role string) bool {
	return role == "user" || role == "vendor" || role == "authority"
}

// Register handles POST /api/users/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		server.Error(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = "user"
	}
	if !validRole(req.Role) {
		server.Error(w, http.StatusBadRequest, "role must be user, vendor or authority")
		return
	}

	if h.store.GetUserByEmail(req.Email) != nil {
		server.Error(w, http.StatusConflict, "email already registered")
		return
	}

	id := h.store.Users.NextID()
	u := store.User{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		WasteStats: store.WasteStats{
			Breakdown: make(map[waste.Category]float64),
		},
		CreatedAt: h.store.Clock.Now().Format(time.RFC3339),
	}
	h.store.Users.Set(id, u)

	server.JSON(w, http.StatusCreated, map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"redirect": redirectFor(u.Role),
	})
}

// SignIn handles POST /api/users/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		server.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u := h.store.GetUserByEmail(req.Email)
	if u == nil || u.Password != req.Password {
		server.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	// Role is optional on signin; when supplied it must match the account.
	if req.Role != "" && req.Role != u.Role {
		server.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.sessions.Issue(u.ID, u.Role)
	if err != nil {
		server.Error(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"role":     u.Role,
		"redirect": redirectFor(u.Role),
		"token":    token,
	})
}

// GetUserDetails handles GET /api/users/details?email=.
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		server.Error(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	u := h.store.GetUserByEmail(email)
	if u == nil {
		server.Error(w, http.StatusNotFound, "user not found")
		return
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"name":  u.Name,
		"email": u.Email,
	})
}
