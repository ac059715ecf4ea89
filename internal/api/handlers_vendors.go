package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// CreateVendorRequest handles POST /api/vendors/requests.
func (h *Handler) CreateVendorRequest(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r)

	var req struct {
		Category   string  `json:"category"`
		QuantityKg float64 `json:"quantity_kg"`
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
	if req.QuantityKg <= 0 {
		server.Error(w, http.StatusUnprocessableEntity, "quantity must be positive")
		return
	}

	id := h.store.VendorRequests.NextID()
	vr := store.VendorRequest{
		ID:         id,
		VendorID:   sess.UserID,
		Category:   cat,
		QuantityKg: req.QuantityKg,
		Status:     store.RequestPending,
		CreatedAt:  h.store.Clock.Now().Format(time.RFC3339),
	}
	h.store.VendorRequests.Set(id, vr)

	server.JSON(w, http.StatusCreated, vr)
}

// ListVendorRequests handles GET /api/vendors/requests. Vendors see their
// own requests; other roles see the full queue.
func (h *Handler) ListVendorRequests(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r)

	var list []store.VendorRequest
	if sess.Role == "vendor" {
		list = h.store.RequestsByVendor(sess.UserID)
	} else {
		list = h.store.VendorRequests.List()
	}
	if list == nil {
		list = []store.VendorRequest{}
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"requests": list,
	})
}

// FulfillVendorRequest handles POST /api/vendors/requests/{id}/fulfill.
func (h *Handler) FulfillVendorRequest(w http.ResponseWriter, r *http.Request) {
	h.transitionRequest(w, r, store.RequestFulfilled)
}

// CancelVendorRequest handles POST /api/vendors/requests/{id}/cancel.
func (h *Handler) CancelVendorRequest(w http.ResponseWriter, r *http.Request) {
	h.transitionRequest(w, r, store.RequestCancelled)
}

// transitionRequest moves a pending request into a terminal status.
// Requests already fulfilled or cancelled stay where they are.
func (h *Handler) transitionRequest(w http.ResponseWriter, r *http.Request, target string) {
	id := chi.URLParam(r, "id")

	vr, found := h.store.VendorRequests.Get(id)
	if !found {
		server.Error(w, http.StatusNotFound, "request not found")
		return
	}
	if vr.Status != store.RequestPending {
		server.Error(w, http.StatusUnprocessableEntity, "request is already "+vr.Status)
		return
	}

	vr.Status = target
	if target == store.RequestFulfilled {
		vr.FulfilledAt = h.store.Clock.Now().Format(time.RFC3339)
	}
	h.store.VendorRequests.Set(id, vr)

	server.JSON(w, http.StatusOK, vr)
}
