package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"devmatch/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind error
		want int
	}{
		{services.ErrInvalidArgument, http.StatusBadRequest},
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrInvalidState, http.StatusBadRequest},
		{services.ErrInternal, http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &services.Error{Kind: tt.kind, Message: "m"})
			assert.Equal(t, tt.want, statusFor(err))
		})
	}
}

func TestFail_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	fail(c, "Test", &services.Error{
		Kind:    services.ErrInternal,
		Message: "Failed to fetch user",
		Cause:   errors.New("connection refused at 10.0.0.3"),
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch user"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	fail(c, "Test", errors.New("raw storage error"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestNew_DefaultTimeout(t *testing.T) {
	h := New(Options{})
	assert.Equal(t, defaultRequestTimeout, h.timeout)
	assert.Nil(t, h.photos)
}
