package handlers

import (
	"net/http"

	"devmatch/models"

	"github.com/gin-gonic/gin"
)

// SendConnection handles POST /connections/send/:status/:toUserId.
func (h *Handler) SendConnection(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	status := models.ConnectionStatus(c.Param("status"))
	conn, summary, err := h.connections.Swipe(ctx, userID, c.Param("toUserId"), status)
	if err != nil {
		fail(c, "SendConnection", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": summary,
		"data":    conn,
	})
}

// ReviewConnection handles POST /connections/review/:status/:requestId.
func (h *Handler) ReviewConnection(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	status := models.ConnectionStatus(c.Param("status"))
	conn, err := h.connections.Review(ctx, userID, c.Param("requestId"), status)
	if err != nil {
		fail(c, "ReviewConnection", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connection " + string(conn.Status),
		"data":    conn,
	})
}

func (h *Handler) ReceivedRequests(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	requests, err := h.connections.ReceivedRequests(ctx, userID)
	if err != nil {
		fail(c, "ReceivedRequests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *Handler) MyConnections(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	profiles, err := h.connections.Connections(ctx, userID)
	if err != nil {
		fail(c, "MyConnections", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}
