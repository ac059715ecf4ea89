package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecosort/ecosort/internal/impact"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// ListBins handles GET /api/bins.
func (h *Handler) ListBins(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, map[string]any{
		"bins": h.store.Bins.List(),
	})
}

// CreateBin handles POST /api/bins.
func (h *Handler) CreateBin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string                     `json:"name"`
		Lat        float64                    `json:"lat"`
		Lng        float64                    `json:"lng"`
		Address    string                     `json:"address"`
		CapacityKg map[waste.Category]float64 `json:"capacity_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Address == "" {
		server.Error(w, http.StatusBadRequest, "name and address are required")
		return
	}
	for cat := range req.CapacityKg {
		if !cat.Valid() {
			server.Error(w, http.StatusBadRequest, "unknown waste category: "+string(cat))
			return
		}
	}
	if req.CapacityKg == nil {
		req.CapacityKg = make(map[waste.Category]float64)
	}

	id := h.store.Bins.NextID()
	bin := store.Bin{
		ID:         id,
		Name:       req.Name,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Address:    req.Address,
		Status:     store.BinOnline,
		LastSynced: h.store.Clock.Now().Format(time.RFC3339),
		FillLevels: make(map[waste.Category]float64),
		CapacityKg: req.CapacityKg,
	}
	h.store.Bins.Set(id, bin)

	server.JSON(w, http.StatusCreated, bin)
}

// UpdateBinStatus handles PATCH /api/bins/{id}/status.
func (h *Handler) UpdateBinStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	bin, found := h.store.Bins.Get(id)
	if !found {
		server.Error(w, http.StatusNotFound, "bin not found")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Status != store.BinOnline && req.Status != store.BinOffline {
		server.Error(w, http.StatusBadRequest, "status must be online or offline")
		return
	}

	bin.Status = req.Status
	bin.LastSynced = h.store.Clock.Now().Format(time.RFC3339)
	h.store.Bins.Set(id, bin)

	server.JSON(w, http.StatusOK, bin)
}

// GetFleetCapacity handles GET /api/bins/capacity.
func (h *Handler) GetFleetCapacity(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, map[string]any{
		"capacity": impact.FleetCapacity(h.store.Bins.List()),
	})
}
