package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ecosort/ecosort/internal/impact"
	"github.com/ecosort/ecosort/internal/rewards"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// CreateContribution handles POST /api/waste. Logging a drop touches three
// records independently: the contribution itself, the bin's fill level,
// and the user's running stats, plus the derived reward. There is no
// cross-record transaction.
func (h *Handler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r)

	var req struct {
		Category string  `json:"category"`
		WeightKg float64 `json:"weight_kg"`
		BinID    string  `json:"bin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cat, err := waste.Parse(req.Category)
	if err != nil {
		server.Error(w, http.StatusBadRequest, "unknown waste category: "+req.Category)
		return
	}
	if req.WeightKg <= 0 {
		server.Error(w, http.StatusUnprocessableEntity, "weight must be positive")
		return
	}

	var bin store.Bin
	var hasBin bool
	if req.BinID != "" {
		bin, hasBin = h.store.Bins.Get(req.BinID)
		if !hasBin {
			server.Error(w, http.StatusNotFound, "bin not found")
			return
		}
	}

	now := h.store.Clock.Now()
	dropID := h.store.Contributions.NextID()
	contribution := store.Contribution{
		ID:        dropID,
		UserID:    sess.UserID,
		Category:  cat,
		WeightKg:  req.WeightKg,
		Timestamp: now.Format(time.RFC3339),
		BinID:     req.BinID,
	}
	h.store.Contributions.Set(dropID, contribution)

	if hasBin {
		if bin.FillLevels == nil {
			bin.FillLevels = make(map[waste.Category]float64)
		}
		bin.FillLevels[cat] += req.WeightKg
		bin.LastSynced = now.Format(time.RFC3339)
		h.store.Bins.Set(bin.ID, bin)

		if threshold := h.cfg.Webhook.AlertThreshold; threshold > 0 && bin.FillLevels[cat] >= threshold {
			h.dispatcher.Enqueue("bin.fill_alert", map[string]any{
				"bin_id":       bin.ID,
				"bin_name":     bin.Name,
				"category":     string(cat),
				"fill_percent": bin.FillLevels[cat],
			})
		}
	}

	if u, found := h.store.Users.Get(sess.UserID); found {
		if u.WasteStats.Breakdown == nil {
			u.WasteStats.Breakdown = make(map[waste.Category]float64)
		}
		u.WasteStats.TotalKg += req.WeightKg
		u.WasteStats.Breakdown[cat] += req.WeightKg
		h.store.Users.Set(u.ID, u)
	}

	generated := rewards.Generate([]store.Contribution{contribution}, h.store.Rewards.NextID)
	for _, rw := range generated {
		h.store.Rewards.Set(rw.ID, rw)
	}

	server.JSON(w, http.StatusCreated, map[string]any{
		"contribution": contribution,
		"reward":       generated[0],
	})
}

// ListContributions handles GET /api/waste?user_id=&days=.
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = sess.UserID
	}

	since := time.Time{}
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			server.Error(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		since = h.store.Clock.Now().Add(-time.Duration(n) * 24 * time.Hour)
	}

	contribs := impact.FilterSince(h.store.Contributions.List(), since, userID)
	if contribs == nil {
		contribs = []store.Contribution{}
	}
	server.JSON(w, http.StatusOK, map[string]any{
		"contributions": contribs,
		"total_kg":      impact.TotalWeight(contribs),
	})
}
