package debt

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for debt operations
type Handler struct {
	service *Service
}

// NewHandler creates a new debt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for debt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/owed-by-me", h.ListOwedByMe)
	r.Get("/owed-to-me", h.ListOwedToMe)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/pay", h.MarkPaid)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /debts
// @Summary      Record a direct debt
// @Description  The authenticated user records a debt owed to them by another user
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        request body CreateDebtRequest true "Debt details"
// @Success      201 {object} response.APIResponse{data=DebtResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /debts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creditorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	d, err := h.service.Create(r.Context(), creditorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, d.ToResponse())
}

// List handles GET /debts
// @Summary      List debts involving the authenticated user
// @Tags         debts
// @Produce      json
// @Param        paid query bool false "Filter by paid flag"
// @Success      200 {object} response.APIResponse{data=[]DebtResponse}
// @Router       /debts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListForUser)
}

// ListOwedByMe handles GET /debts/owed-by-me
// @Summary      List debts the authenticated user owes
// @Tags         debts
// @Produce      json
// @Param        paid query bool false "Filter by paid flag"
// @Success      200 {object} response.APIResponse{data=[]DebtResponse}
// @Router       /debts/owed-by-me [get]
func (h *Handler) ListOwedByMe(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListOwedBy)
}

// ListOwedToMe handles GET /debts/owed-to-me
// @Summary      List debts owed to the authenticated user
// @Tags         debts
// @Produce      json
// @Param        paid query bool false "Filter by paid flag"
// @Success      200 {object} response.APIResponse{data=[]DebtResponse}
// @Router       /debts/owed-to-me [get]
func (h *Handler) ListOwedToMe(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListOwedTo)
}

// GetByID handles GET /debts/{id}
// @Summary      Get debt by ID
// @Tags         debts
// @Produce      json
// @Param        id path int true "Debt ID"
// @Success      200 {object} response.APIResponse{data=DebtResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /debts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid debt ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	d, err := h.service.GetByID(r.Context(), id, actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, d.ToResponse())
}

// MarkPaid handles POST /debts/{id}/pay
// @Summary      Settle a debt
// @Description  Either party records the settlement; re-settling fails
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id path int true "Debt ID"
// @Param        request body MarkPaidRequest false "Payment details"
// @Success      200 {object} response.APIResponse{data=DebtResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /debts/{id}/pay [post]
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid debt ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	req := &MarkPaidRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	d, err := h.service.MarkPaid(r.Context(), id, actorID, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, d.ToResponse())
}

// Delete handles DELETE /debts/{id}
// @Summary      Delete a debt
// @Description  Remove a recorded debt (creditor only)
// @Tags         debts
// @Produce      json
// @Param        id path int true "Debt ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /debts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid debt ID")
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

	response.JSON(w, http.StatusOK, map[string]string{"message": "Debt deleted successfully"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID int64, paid *bool) ([]*Debt, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
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

	debts, err := fetch(r.Context(), userID, paid)
	if err != nil {
		response.AppError(w, err)
		return
	}

	resp := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		resp[i] = d.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}
