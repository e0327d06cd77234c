package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/netops-tools/subnet-inventory/internal/domain"
	"github.com/netops-tools/subnet-inventory/internal/inventory"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
	"github.com/netops-tools/subnet-inventory/internal/validation"
)

// SubnetHandler handles subnet inventory endpoints.
type SubnetHandler struct {
	svc *inventory.Service
}

// NewSubnetHandler creates a new SubnetHandler.
func NewSubnetHandler(svc *inventory.Service) *SubnetHandler {
	return &SubnetHandler{svc: svc}
}

// List lists all subnets in stored order.
func (h *SubnetHandler) List(w http.ResponseWriter, r *http.Request) {
	subnets, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, subnets)
}

// Create adds a subnet to the inventory. Overlaps with existing records
// require confirmed=true in the request; overlaps with reserved ranges are
// rejected unconditionally.
func (h *SubnetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSubnetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.CIDR == "" {
		respondError(w, http.StatusBadRequest, "name and cidr are required")
		return
	}

	if err := validation.ValidateSubnetName(req.Name); err != nil {
		respondValidationError(w, "name", req.Name, err.Error())
		return
	}
	if err := validation.ValidateCIDR(req.CIDR); err != nil {
		respondValidationError(w, "cidr", req.CIDR, err.Error())
		return
	}

	proposal, err := h.svc.ProposeAdd(r.Context(), req.Name, req.CIDR)
	if err != nil {
		handleError(w, err)
		return
	}

	if len(proposal.Conflicts) > 0 && !req.Confirmed {
		respondJSON(w, http.StatusConflict, &domain.ConflictListResponse{
			CIDR:      req.CIDR,
			Conflicts: proposal.Conflicts,
		})
		return
	}

	subnet := &domain.Subnet{
		ID:        generateID(),
		Name:      req.Name,
		CIDR:      req.CIDR,
		CreatedAt: time.Now(),
	}

	if err := h.svc.CommitAdd(r.Context(), subnet); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, subnet)
}

// Get gets a subnet by name.
func (h *SubnetHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	subnet, err := h.svc.Get(r.Context(), name)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, subnet)
}

// Delete deletes a subnet by name.
func (h *SubnetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	removed, err := h.svc.Remove(r.Context(), name)
	if err != nil {
		handleError(w, err)
		return
	}
	if removed == 0 {
		handleError(w, domain.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Conflicts reports every stored subnet overlapping the candidate CIDR.
func (h *SubnetHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	cidr := r.URL.Query().Get("cidr")
	if cidr == "" {
		respondError(w, http.StatusBadRequest, "cidr query parameter is required")
		return
	}

	candidate, err := netcalc.Parse(cidr)
	if err != nil {
		handleError(w, err)
		return
	}

	conflicts, err := h.svc.FindConflicts(r.Context(), candidate)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &domain.ConflictListResponse{
		CIDR:      cidr,
		Conflicts: conflicts,
	})
}

// Query reports whether a subnet address is already in the inventory.
func (h *SubnetHandler) Query(w http.ResponseWriter, r *http.Request) {
	cidr := r.URL.Query().Get("cidr")
	if cidr == "" {
		respondError(w, http.StatusBadRequest, "cidr query parameter is required")
		return
	}

	exists, err := h.svc.AddressExists(r.Context(), cidr)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &domain.QueryResponse{
		CIDR:   cidr,
		Exists: exists,
	})
}
