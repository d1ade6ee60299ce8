package api

import (
	"fmt"
	"net/http"

	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfilePictureHandler handles presigned uploads of the avatar image.
type ProfilePictureHandler struct {
	pictureService service.ProfilePictureService
}

func NewProfilePictureHandler(ps service.ProfilePictureService) *ProfilePictureHandler {
	return &ProfilePictureHandler{pictureService: ps}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// RequestUploadURL godoc
// @Summary Get a presigned URL to upload a profile picture
// @Tags ProfilePicture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadTicket
// @Failure 400 {object} gin.H "Unsupported image type"
// @Router /me/profile-picture/upload-url [post]
func (h *ProfilePictureHandler) RequestUploadURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ticket, err := h.pictureService.RequestUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err, "Failed to prepare upload.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ConfirmUpload godoc
// @Summary Confirm an uploaded profile picture
// @Tags ProfilePicture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmUploadRequest true "Uploaded object key"
// @Success 200 {object} domain.ProfilePicture
// @Failure 403 {object} gin.H "Object key belongs to another user"
// @Failure 404 {object} gin.H "Upload not found"
// @Failure 413 {object} gin.H "Image too large"
// @Router /me/profile-picture/confirm [post]
func (h *ProfilePictureHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	pic, err := h.pictureService.ConfirmUpload(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		abortWithServiceError(c, err, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusOK, pic)
}

// GetProfilePicture godoc
// @Summary Get a presigned download URL for my profile picture
// @Tags ProfilePicture
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "url"
// @Failure 404 {object} gin.H "No profile picture"
// @Router /me/profile-picture [get]
func (h *ProfilePictureHandler) GetProfilePicture(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, err := h.pictureService.DownloadURL(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to load profile picture.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
