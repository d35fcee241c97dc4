package purchase

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for purchase operations
type Handler struct {
	service *Service
}

// NewHandler creates a new purchase handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for purchase endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListCreated)
	r.Get("/involving", h.ListInvolving)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/items", h.AddItem)
	r.Post("/{id}/finalize", h.Finalize)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /purchases
// @Summary      Record an itemized purchase
// @Description  Creates an open purchase with line items assigned to users
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body CreatePurchaseRequest true "Purchase details"
// @Success      201 {object} response.APIResponse{data=PurchaseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /purchases [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}

// ListCreated handles GET /purchases
// @Summary      List purchases created by the authenticated user
// @Tags         purchases
// @Produce      json
// @Param        finalized query bool false "Filter by finalized flag"
// @Success      200 {object} response.APIResponse{data=[]PurchaseResponse}
// @Router       /purchases [get]
func (h *Handler) ListCreated(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var finalized *bool
	if v := r.URL.Query().Get("finalized"); v != "" {
		f, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid finalized filter")
			return
		}
		finalized = &f
	}

	purchases, err := h.service.ListCreated(r.Context(), userID, finalized)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(purchases))
}

// ListInvolving handles GET /purchases/involving
// @Summary      List purchases with items assigned to the authenticated user
// @Tags         purchases
// @Produce      json
// @Param        active query bool false "Only open purchases"
// @Success      200 {object} response.APIResponse{data=[]PurchaseResponse}
// @Router       /purchases/involving [get]
func (h *Handler) ListInvolving(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		a, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid active filter")
			return
		}
		activeOnly = a
	}

	purchases, err := h.service.ListInvolving(r.Context(), userID, activeOnly)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(purchases))
}

// GetByID handles GET /purchases/{id}
// @Summary      Get purchase by ID with its items
// @Tags         purchases
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Success      200 {object} response.APIResponse{data=PurchaseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /purchases/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid purchase ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.GetByID(r.Context(), id, actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// AddItem handles POST /purchases/{id}/items
// @Summary      Add an item to an open purchase
// @Description  Creator only; finalized purchases cannot be changed
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Param        request body ItemRequest true "Item details"
// @Success      200 {object} response.APIResponse{data=PurchaseResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /purchases/{id}/items [post]
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid purchase ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.AddItem(r.Context(), id, actorID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Finalize handles POST /purchases/{id}/finalize
// @Summary      Finalize a purchase
// @Description  Closes the purchase and generates one debt per non-creator assignee
// @Tags         purchases
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Success      200 {object} response.APIResponse{data=PurchaseResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /purchases/{id}/finalize [post]
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid purchase ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.Finalize(r.Context(), id, actorID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Delete handles DELETE /purchases/{id}
// @Summary      Delete an open purchase
// @Description  Creator only; finalized purchases cannot be deleted
// @Tags         purchases
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /purchases/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid purchase ID")
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

	response.JSON(w, http.StatusOK, map[string]string{"message": "Purchase deleted successfully"})
}

func toResponses(purchases []*Purchase) []*PurchaseResponse {
	resp := make([]*PurchaseResponse, len(purchases))
	for i, p := range purchases {
		resp[i] = p.ToResponse()
	}
	return resp
}
