package invite

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for invite operations
type Handler struct {
	service *Service
}

// NewHandler creates a new invite handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for invite endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/bill/{billId}", h.ListByBill)
	r.Get("/token/{token}", h.GetByToken)
	r.Post("/token/{token}/accept", h.Accept)
	r.Post("/{id}/cancel", h.Cancel)
	r.Post("/expire", h.MarkExpired)

	return r
}

// Create handles POST /invites
// @Summary      Invite an email address to a bill
// @Description  Issues a tokened invite with an expiry (bill creator only)
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        request body CreateInviteRequest true "Invite details"
// @Success      201 {object} response.APIResponse{data=InviteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /invites [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	i, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, i.ToResponse())
}

// ListByBill handles GET /invites/bill/{billId}
// @Summary      List the invites of a bill
// @Tags         invites
// @Produce      json
// @Param        billId path int true "Bill ID"
// @Success      200 {object} response.APIResponse{data=[]InviteResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /invites/bill/{billId} [get]
func (h *Handler) ListByBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.ParseInt(chi.URLParam(r, "billId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	invites, err := h.service.ListByBill(r.Context(), billID, actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	resp := make([]*InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = inv.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetByToken handles GET /invites/token/{token}
// @Summary      Look up an invite by token
// @Tags         invites
// @Produce      json
// @Param        token path string true "Invite token"
// @Success      200 {object} response.APIResponse{data=InviteResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /invites/token/{token} [get]
func (h *Handler) GetByToken(w http.ResponseWriter, r *http.Request) {
	i, err := h.service.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, i.ToResponse())
}

// Accept handles POST /invites/token/{token}/accept
// @Summary      Accept an invite
// @Tags         invites
// @Produce      json
// @Param        token path string true "Invite token"
// @Success      200 {object} response.APIResponse{data=InviteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /invites/token/{token}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	i, err := h.service.Accept(r.Context(), chi.URLParam(r, "token"), actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, i.ToResponse())
}

// Cancel handles POST /invites/{id}/cancel
// @Summary      Cancel a pending invite
// @Tags         invites
// @Produce      json
// @Param        id path int true "Invite ID"
// @Success      200 {object} response.APIResponse{data=InviteResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /invites/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invite ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	i, err := h.service.Cancel(r.Context(), id, actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, i.ToResponse())
}

// MarkExpired handles POST /invites/expire
// @Summary      Expire overdue invites
// @Description  Sweep entry point for an external scheduler
// @Tags         invites
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /invites/expire [post]
func (h *Handler) MarkExpired(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.MarkExpired(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"expired": count})
}
