// Package api implements the EcoSort REST surface: accounts, waste
// logging, bins, impact summaries, rewards, and vendor requests.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ecosort/ecosort/internal/config"
	"github.com/ecosort/ecosort/internal/notify"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
)

type contextKey string

const sessionCtxKey contextKey = "session"

// Handler holds all API handler state.
type Handler struct {
	store      *store.MemoryStore
	sessions   *SessionManager
	dispatcher *notify.Dispatcher
	cfg        *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(s *store.MemoryStore, cfg *config.Config, dispatcher *notify.Dispatcher) *Handler {
	return &Handler{
		store:      s,
		sessions:   NewSessionManager(cfg.SessionSecret, s.Clock),
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Routes mounts the API endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		// Accounts
		r.Post("/users/register", h.Register)
		r.Post("/users/signin", h.SignIn)
		r.Get("/users/details", h.GetUserDetails)

		// Public catalog and fleet views
		r.Get("/bins", h.ListBins)
		r.Get("/bins/capacity", h.GetFleetCapacity)
		r.Get("/coupons", h.ListCoupons)

		// Authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Post("/waste", h.CreateContribution)
			r.Get("/waste", h.ListContributions)

			r.Post("/bins", h.CreateBin)
			r.Patch("/bins/{id}/status", h.UpdateBinStatus)

			r.Get("/impact/{user_id}", h.GetImpact)

			r.Get("/rewards/{user_id}", h.GetRewards)
			r.Post("/rewards/{user_id}/redeem", h.RedeemReward)

			r.Post("/vendors/requests", h.CreateVendorRequest)
			r.Get("/vendors/requests", h.ListVendorRequests)
			r.Post("/vendors/requests/{id}/fulfill", h.FulfillVendorRequest)
			r.Post("/vendors/requests/{id}/cancel", h.CancelVendorRequest)
		})
	})
}

// authMiddleware validates the Bearer session token and stores the session
// claims in the request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			server.Error(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			server.Error(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		sess, err := h.sessions.Parse(token)
		if err != nil {
			server.Error(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		if _, found := h.store.Users.Get(sess.UserID); !found {
			server.Error(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getSession extracts the authenticated session from the request context.
func getSession(r *http.Request) Session {
	return r.Context().Value(sessionCtxKey).(Session)
}
