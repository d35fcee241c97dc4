package balance

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for balance queries
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetMyBalance)
	r.Get("/contacts/{userId}", h.GetContactBalance)

	return r
}

// GetMyBalance handles GET /balances
// @Summary      Get the authenticated user's net balance
// @Description  Nets every unpaid obligation and direct debt, grouped per contact
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserBalance}
// @Router       /balances [get]
func (h *Handler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ub, err := h.service.GetUserBalance(r.Context(), userID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, ub)
}

// GetContactBalance handles GET /balances/contacts/{userId}
// @Summary      Get the net balance against one contact
// @Description  Nets the open items between the authenticated user and the given contact, items included
// @Tags         balances
// @Produce      json
// @Param        userId path int true "Contact user ID"
// @Success      200 {object} response.APIResponse{data=ContactBalance}
// @Router       /balances/contacts/{userId} [get]
func (h *Handler) GetContactBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	contactID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid contact user ID")
		return
	}

	cb, err := h.service.GetContactBalance(r.Context(), userID, contactID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cb)
}
