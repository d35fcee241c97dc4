package friendship

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billshare/pkg/middleware"
	"billshare/pkg/response"
)

// Handler handles HTTP requests for friendship operations
type Handler struct {
	service *Service
}

// NewHandler creates a new friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friendship endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Request)
	r.Get("/", h.ListFriends)
	r.Get("/pending", h.ListPending)
	r.Post("/{id}/respond", h.Respond)
	r.Delete("/{userId}", h.Remove)
	r.Post("/{userId}/block", h.Block)

	return r
}

// Request handles POST /friendships
// @Summary      Send a friend request
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Param        request body RequestFriendshipRequest true "Target user"
// @Success      201 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /friendships [post]
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RequestFriendshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	f, err := h.service.Request(r.Context(), requesterID, req.UserID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// ListFriends handles GET /friendships
// @Summary      List accepted friendships
// @Tags         friendships
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]FriendshipResponse}
// @Router       /friendships [get]
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friendships, err := h.service.ListFriends(r.Context(), userID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(friendships))
}

// ListPending handles GET /friendships/pending
// @Summary      List friend requests awaiting my response
// @Tags         friendships
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]FriendshipResponse}
// @Router       /friendships/pending [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friendships, err := h.service.ListPending(r.Context(), userID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(friendships))
}

// Respond handles POST /friendships/{id}/respond
// @Summary      Accept or reject a pending friend request
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Param        id path int true "Friendship ID"
// @Param        request body RespondRequest true "Response"
// @Success      200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friendships/{id}/respond [post]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	f, err := h.service.Respond(r.Context(), id, actorID, req.Accept)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Remove handles DELETE /friendships/{userId}
// @Summary      Remove a friend
// @Tags         friendships
// @Produce      json
// @Param        userId path int true "Friend user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /friendships/{userId} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	friendID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Remove(r.Context(), userID, friendID); err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friend removed successfully"})
}

// Block handles POST /friendships/{userId}/block
// @Summary      Block a user
// @Tags         friendships
// @Produce      json
// @Param        userId path int true "User ID to block"
// @Success      200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /friendships/{userId}/block [post]
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	f, err := h.service.Block(r.Context(), actorID, targetID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

func toResponses(friendships []*Friendship) []*FriendshipResponse {
	resp := make([]*FriendshipResponse, len(friendships))
	for i, f := range friendships {
		resp[i] = f.ToResponse()
	}
	return resp
}
