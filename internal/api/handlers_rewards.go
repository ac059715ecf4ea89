package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ecosort/ecosort/internal/rewards"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
)

// GetRewards handles GET /api/rewards/{user_id}.
func (h *Handler) GetRewards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if _, found := h.store.Users.Get(userID); !found {
		server.Error(w, http.StatusNotFound, "user not found")
		return
	}

	history := h.store.RewardsByUser(userID)
	if history == nil {
		history = []store.Reward{}
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"rewards": history,
		"balance": rewards.Balance(history),
	})
}

// RedeemReward handles POST /api/rewards/{user_id}/redeem. Redemption is
// terminal; redeeming an already-redeemed reward returns the same coupon
// shape without changing any record.
func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if _, found := h.store.Users.Get(userID); !found {
		server.Error(w, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		RewardID string `json:"reward_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RewardID == "" {
		server.Error(w, http.StatusBadRequest, "reward_id is required")
		return
	}

	// Scoping to the user's own rewards makes a foreign reward ID look
	// absent rather than forbidden.
	history := h.store.RewardsByUser(userID)
	updated, err := rewards.Redeem(history, req.RewardID)
	if err != nil {
		if errors.Is(err, rewards.ErrNotFound) {
			server.Error(w, http.StatusNotFound, "reward not found")
			return
		}
		server.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	var redeemed store.Reward
	for _, rw := range updated {
		h.store.Rewards.Set(rw.ID, rw)
		if rw.ID == req.RewardID {
			redeemed = rw
		}
	}

	code := "ECO-" + strings.ToUpper(uuid.NewString()[:8])
	server.JSON(w, http.StatusOK, map[string]any{
		"reward":      redeemed,
		"balance":     rewards.Balance(updated),
		"coupon_code": code,
	})
}

// ListCoupons handles GET /api/coupons.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, map[string]any{
		"coupons": h.store.Coupons.List(),
	})
}
