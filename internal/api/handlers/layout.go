package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
)

// LayoutController is the part of the layout driver the API drives.
type LayoutController interface {
	Snapshot() force.Snapshot
	Pin(id string, x, y float64) error
	Unpin(id string) error
	Params() force.Params
	UpdateParams(fn func(cur force.Params) force.Params) force.Params
	Restart()
	Stop()
	Subscribe(buffer int) (<-chan force.Snapshot, func())
}

// LayoutHandler exposes the running simulation.
type LayoutHandler struct {
	layout LayoutController
}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler(l LayoutController) *LayoutHandler {
	return &LayoutHandler{layout: l}
}

// PinRequest fixes a node at a position, as while it is being dragged.
type PinRequest struct {
	ID string   `json:"id" validate:"required,max=256"`
	X  *float64 `json:"x" validate:"required,gte=-1000000,lte=1000000"`
	Y  *float64 `json:"y" validate:"required,gte=-1000000,lte=1000000"`
}

// ParamsRequest is a partial parameter update; omitted fields keep their
// current value.
type ParamsRequest struct {
	ChargeStrength *float64 `json:"charge_strength" validate:"omitempty,gte=-1000,lte=1000"`
	LinkStrength   *float64 `json:"link_strength" validate:"omitempty,gte=0,lte=2"`
	LinkDistance   *float64 `json:"link_distance" validate:"omitempty,gte=0,lte=1000"`
	CollideRadius  *float64 `json:"collide_radius" validate:"omitempty,gte=0,lte=500"`
}

func (p ParamsRequest) apply(cur force.Params) force.Params {
	if p.ChargeStrength != nil {
		cur.ChargeStrength = *p.ChargeStrength
	}
	if p.LinkStrength != nil {
		cur.LinkStrength = *p.LinkStrength
	}
	if p.LinkDistance != nil {
		cur.LinkDistance = *p.LinkDistance
	}
	if p.CollideRadius != nil {
		cur.CollideRadius = *p.CollideRadius
	}
	return cur
}

// StatusResponse reports the cooling state after a control request.
type StatusResponse struct {
	State force.State `json:"state"`
	Alpha float64     `json:"alpha"`
	Tick  int         `json:"tick"`
}

// GetSnapshot returns the current positions without advancing the layout.
// GET /api/layout
func (h *LayoutHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.layout.Snapshot())
}

// PinNode pins a node at the requested position.
// POST /api/layout/pin
func (h *LayoutHandler) PinNode(w http.ResponseWriter, r *http.Request) {
	var req PinRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apierr.WriteErrorWithContext(w, r, apiErr)
		return
	}

	if err := h.layout.Pin(req.ID, *req.X, *req.Y); err != nil {
		h.writeNodeError(w, r, req.ID, err)
		return
	}
	logger.WithRequestID(r.Context()).Debug("Node pinned", "id", req.ID, "x", *req.X, "y", *req.Y)
	w.WriteHeader(http.StatusNoContent)
}

// UnpinNode releases a pinned node. Unpinning a free node is a no-op.
// DELETE /api/layout/pin/{id}
func (h *LayoutHandler) UnpinNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("id"))
		return
	}

	if err := h.layout.Unpin(id); err != nil {
		h.writeNodeError(w, r, id, err)
		return
	}
	logger.WithRequestID(r.Context()).Debug("Node unpinned", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LayoutHandler) writeNodeError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, force.ErrUnknownNode) {
		apierr.WriteErrorWithContext(w, r, apierr.LayoutUnknownNode(id))
		return
	}
	apierr.WriteErrorWithContext(w, r, apierr.LayoutInvalidPin(err.Error()))
}

// GetParams returns the force parameters in effect.
// GET /api/layout/params
func (h *LayoutHandler) GetParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.layout.Params())
}

// UpdateParams applies a partial parameter update and reheats the layout.
// PUT /api/layout/params
func (h *LayoutHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	var req ParamsRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apierr.WriteErrorWithContext(w, r, apiErr)
		return
	}

	applied := h.layout.UpdateParams(req.apply)
	logger.InfoContext(r.Context(), "Force parameters updated",
		"charge_strength", applied.ChargeStrength,
		"link_strength", applied.LinkStrength,
		"link_distance", applied.LinkDistance,
		"collide_radius", applied.CollideRadius)
	writeJSON(w, http.StatusOK, applied)
}

// Restart reheats the layout to full energy.
// POST /api/layout/restart
func (h *LayoutHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.layout.Restart()
	writeJSON(w, http.StatusOK, h.status())
}

// Stop freezes the layout until the next disturbance.
// POST /api/layout/stop
func (h *LayoutHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.layout.Stop()
	writeJSON(w, http.StatusOK, h.status())
}

func (h *LayoutHandler) status() StatusResponse {
	snap := h.layout.Snapshot()
	return StatusResponse{State: snap.State, Alpha: snap.Alpha, Tick: snap.Tick}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
