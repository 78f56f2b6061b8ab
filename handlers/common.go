package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"devmatch/media"
	"devmatch/middleware"
	"devmatch/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultRequestTimeout = 10 * time.Second

// Handler serves the HTTP API on top of the service layer.
type Handler struct {
	users       *services.UserService
	connections *services.ConnectionService
	feed        *services.FeedService
	photos      media.PhotoUploader

	tokenTTL     time.Duration
	secureCookie bool
	timeout      time.Duration
}

type Options struct {
	Users       *services.UserService
	Connections *services.ConnectionService
	Feed        *services.FeedService
	// Photos may be nil, in which case photo uploads answer 503.
	Photos media.PhotoUploader

	TokenTTL       time.Duration
	SecureCookie   bool
	RequestTimeout time.Duration
}

func New(opts Options) *Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		users:        opts.Users,
		connections:  opts.Connections,
		feed:         opts.Feed,
		photos:       opts.Photos,
		tokenTTL:     opts.TokenTTL,
		secureCookie: opts.SecureCookie,
		timeout:      timeout,
	}
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// caller returns the authenticated user id, answering 401 when it is absent.
func caller(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access Denied"})
	}
	return id, ok
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes it as {"error": ...}. Only the client message of
// a service error is exposed.
func fail(c *gin.Context, op string, err error) {
	message := "Internal Server Error"
	var se *services.Error
	if errors.As(err, &se) {
		message = se.Message
	}
	status := statusFor(err)
	log.Printf("[%s] %s %d: %v", op, middleware.RequestIDFrom(c), status, err)
	c.JSON(status, gin.H{"error": message})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	if h.secureCookie {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	if h.secureCookie {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "devmatch API is running",
		"time":    time.Now().Unix(),
	})
}
