package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetFeed pages through profiles the caller has no connection with.
// Missing or non-numeric page and limit fall back to the defaults.
func (h *Handler) GetFeed(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := h.ctx(c)
	defer cancel()

	cards, err := h.feed.Feed(ctx, userID, page, limit)
	if err != nil {
		fail(c, "GetFeed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cards})
}
