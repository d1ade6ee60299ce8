package api

import (
	"net/http"
	"strconv"

	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultFollowPage = 50
	maxFollowPage     = 200
)

// FollowHandler exposes the follow graph between users.
type FollowHandler struct {
	followService service.FollowService
}

func NewFollowHandler(fs service.FollowService) *FollowHandler {
	return &FollowHandler{followService: fs}
}

// Follow godoc
// @Summary Follow a user
// @Description Following someone you already follow is a no-op answered with 200.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 201 {object} service.FollowStatus
// @Success 200 {object} service.FollowStatus
// @Failure 400 {object} gin.H "Cannot follow yourself"
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id}/follow [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	created, err := h.followService.Follow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to follow user.")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respondStatus(c, status, userID)
}

// Unfollow godoc
// @Summary Stop following a user
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.FollowStatus
// @Failure 404 {object} gin.H "Not following"
// @Router /users/{id}/follow [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithServiceError(c, err, "Failed to unfollow user.")
		return
	}
	h.respondStatus(c, http.StatusOK, userID)
}

// GetFollowStatus godoc
// @Summary Follow state and counts of a user
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.FollowStatus
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id}/follow [get]
func (h *FollowHandler) GetFollowStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respondStatus(c, http.StatusOK, userID)
}

// ListFollowers godoc
// @Summary Who follows a user, most recent first
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Success 200 {array} domain.Follow
// @Router /users/{id}/followers [get]
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	limit, ok := followPageSize(c)
	if !ok {
		return
	}

	follows, err := h.followService.Followers(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list followers.")
		return
	}
	c.JSON(http.StatusOK, follows)
}

// ListFollowing godoc
// @Summary Who a user follows, most recent first
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Success 200 {array} domain.Follow
// @Router /users/{id}/following [get]
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	limit, ok := followPageSize(c)
	if !ok {
		return
	}

	follows, err := h.followService.Following(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list followed users.")
		return
	}
	c.JSON(http.StatusOK, follows)
}

func (h *FollowHandler) respondStatus(c *gin.Context, code int, viewerID string) {
	status, err := h.followService.Status(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to load follow status.")
		return
	}
	c.JSON(code, status)
}

func followPageSize(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultFollowPage, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(n, maxFollowPage), true
}
