package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecosort/ecosort/internal/impact"
	"github.com/ecosort/ecosort/internal/server"
)

// GetImpact handles GET /api/impact/{user_id}?window=weekly|monthly.
// Without a window parameter the summary covers the user's full history.
func (h *Handler) GetImpact(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if _, found := h.store.Users.Get(userID); !found {
		server.Error(w, http.StatusNotFound, "user not found")
		return
	}

	since := time.Time{}
	window := r.URL.Query().Get("window")
	switch window {
	case "":
	case "weekly":
		since = h.store.Clock.Now().Add(-impact.WeeklyWindow)
	case "monthly":
		since = h.store.Clock.Now().Add(-impact.MonthlyWindow)
	default:
		server.Error(w, http.StatusBadRequest, "window must be weekly or monthly")
		return
	}

	contribs := impact.FilterSince(h.store.Contributions.List(), since, userID)
	total := impact.TotalWeight(contribs)

	// The badge reflects lifetime volume, not the requested window.
	lifetime := impact.TotalWeight(h.store.ContributionsByUser(userID))

	server.JSON(w, http.StatusOK, map[string]any{
		"user_id":     userID,
		"window":      window,
		"total_kg":    total,
		"breakdown":   impact.SumByCategory(contribs),
		"co2_saved":   impact.CO2Saved(contribs),
		"water_saved": impact.WaterSaved(contribs),
		"badge":       impact.BadgeTier(lifetime),
	})
}
