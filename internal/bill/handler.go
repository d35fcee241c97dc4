package bill

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for bill operations
type Handler struct {
	service *Service
}

// NewHandler creates a new bill handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for bill endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/overdue", h.ListOverdue)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/resplit", h.Resplit)
	r.Post("/{id}/overdue", h.MarkOverdue)
	r.Get("/group/{groupId}", h.ListByGroup)

	// Obligation operations
	r.Post("/obligations/{obligationId}/pay", h.MarkObligationPaid)

	return r
}

// Create handles POST /bills
// @Summary      Create a bill
// @Description  Create a bill and allocate it across participants using EQUAL, PERCENTAGE, or EXACT strategy
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body CreateBillRequest true "Bill creation request"
// @Success      201 {object} response.APIResponse{data=BillResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /bills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// ListMine handles GET /bills
// @Summary      List bills related to the authenticated user
// @Description  Bills the user created or participates in, with optional paid and due-date period filters
// @Tags         bills
// @Produce      json
// @Param        paid query bool false "Filter by paid flag"
// @Param        from query string false "Due date from (YYYY-MM-DD)"
// @Param        to query string false "Due date to (YYYY-MM-DD)"
// @Success      200 {object} response.APIResponse{data=[]BillResponse}
// @Router       /bills [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := &ListFilter{}
	if v := r.URL.Query().Get("paid"); v != "" {
		paid, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid paid filter")
			return
		}
		filter.Paid = &paid
	}
	if v := r.URL.Query().Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.To = &to
	}

	bills, err := h.service.ListRelatedToUser(r.Context(), userID, filter)
	if err != nil {
		response.AppError(w, err)
		return
	}

	resp := make([]*BillResponse, len(bills))
	for i, b := range bills {
		resp[i] = b.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// ListOverdue handles GET /bills/overdue
// @Summary      List unpaid bills past their due date
// @Tags         bills
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]BillResponse}
// @Router       /bills/overdue [get]
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	bills, err := h.service.ListOverdue(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}

	resp := make([]*BillResponse, len(bills))
	for i, b := range bills {
		resp[i] = b.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /bills/{id}
// @Summary      Get bill by ID
// @Description  Get a bill with all its obligations
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// ListByGroup handles GET /bills/group/{groupId}
// @Summary      List bills of a group
// @Tags         bills
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        paid query bool false "Filter by paid flag"
// @Success      200 {object} response.APIResponse{data=[]BillResponse}
// @Router       /bills/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var paid *bool
	if v := r.URL.Query().Get("paid"); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid paid filter")
			return
		}
		paid = &p
	}

	bills, err := h.service.ListByGroup(r.Context(), groupID, paid)
	if err != nil {
		response.AppError(w, err)
		return
	}

	resp := make([]*BillResponse, len(bills))
	for i, b := range bills {
		resp[i] = b.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /bills/{id}
// @Summary      Update bill metadata
// @Description  Update description or due date (creator only)
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Param        request body UpdateBillRequest true "Bill update"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /bills/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	b, err := h.service.Update(r.Context(), id, actorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// Delete handles DELETE /bills/{id}
// @Summary      Delete a bill
// @Description  Delete a bill and its obligations (creator only)
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actorID); err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Bill deleted successfully"})
}

// Resplit handles POST /bills/{id}/resplit
// @Summary      Re-split a bill
// @Description  Atomically replace the obligation set with a new allocation (creator only); the new allocation must sum to the bill amount
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Param        request body ResplitRequest true "New allocation"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /bills/{id}/resplit [post]
func (h *Handler) Resplit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ResplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Resplit(r.Context(), id, actorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// MarkOverdue handles POST /bills/{id}/overdue
// @Summary      Mark a past-due bill as overdue
// @Description  Sweep entry point for an external scheduler; fails on paid bills
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /bills/{id}/overdue [post]
func (h *Handler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	b, err := h.service.MarkOverdue(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// MarkObligationPaid handles POST /bills/obligations/{obligationId}/pay
// @Summary      Mark an obligation as paid
// @Description  The ower records their payment with optional method and timestamp; re-marking a paid obligation fails
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        obligationId path int true "Obligation ID"
// @Param        request body MarkObligationPaidRequest false "Payment details"
// @Success      200 {object} response.APIResponse{data=ObligationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /bills/obligations/{obligationId}/pay [post]
func (h *Handler) MarkObligationPaid(w http.ResponseWriter, r *http.Request) {
	obligationID, err := strconv.ParseInt(chi.URLParam(r, "obligationId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid obligation ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	req := &MarkObligationPaidRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	o, err := h.service.MarkObligationPaid(r.Context(), obligationID, actorID, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, o.ToResponse())
}
