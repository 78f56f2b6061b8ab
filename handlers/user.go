package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"devmatch/middleware"
	"devmatch/models"

	"github.com/gin-gonic/gin"
)

const (
	maxPhotoSize       = 10 << 20
	photoUploadTimeout = 30 * time.Second
)

type ResetPasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.users.Profile(ctx, userID)
	if err != nil {
		fail(c, "GetProfile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Safe()})
}

// UpdateUser accepts only the fields of models.ProfileUpdate. Any other key
// rejects the whole request.
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&update)
	if err == nil {
		// The body must hold exactly one object.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after the update object")
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		log.Printf("[UpdateUser] %s rejected body: %v", middleware.RequestIDFrom(c), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Edit Request"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.users.Update(ctx, userID, update)
	if err != nil {
		fail(c, "UpdateUser", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s , your profile has been updated", user.FirstName),
		"data":    user.Safe(),
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.users.ResetPassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, "ResetPassword", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.users.Delete(ctx, userID); err != nil {
		fail(c, "DeleteUser", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UploadPhoto stores the multipart "photo" file and makes it the caller's
// profile photo.
func (h *Handler) UploadPhoto(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo uploads are not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Photo is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := h.ctx(c)
	defer cancel()

	if _, err := h.users.Profile(ctx, userID); err != nil {
		fail(c, "UploadPhoto", err)
		return
	}

	uploadCtx, uploadCancel := context.WithTimeout(c.Request.Context(), photoUploadTimeout)
	defer uploadCancel()

	url, err := h.photos.UploadPhoto(uploadCtx, userID.Hex(), file)
	if err != nil {
		log.Printf("[UploadPhoto] %s upload failed: %v", middleware.RequestIDFrom(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	user, err := h.users.SetPhoto(ctx, userID, url)
	if err != nil {
		fail(c, "UploadPhoto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Photo uploaded successfully",
		"data":    user.Safe(),
	})
}
