package handlers

import (
	"errors"
	"net/http"

	"devmatch/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req services.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.users.SignUp(ctx, req)
	if err != nil {
		fail(c, "SignUp", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    user,
	})
}

// Login answers every credential failure with the same 401 body.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, token, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		fail(c, "Login", err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"data": user.Safe()})
}

func (h *Handler) Logout(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.users.Logout(ctx, userID); err != nil {
		fail(c, "Logout", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
