package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/jobportal-backend/internal/http/middleware"
)

func TestAuthHandler_BindErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.POST("/auth/reset-password", handler.ResetPassword)

	tests := []struct {
		path string
		body string
	}{
		{"/auth/register", `{"email":"a@b.io"}`},
		{"/auth/login", `{"email":"a@b.io"}`},
		{"/auth/refresh", `{}`},
		{"/auth/reset-password", `{"token":"abc"}`},
		{"/auth/login", `not json`},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, tt.path)
	}
}

func TestAuthHandler_MeUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{auth: nil}
	r.GET("/auth/me", handler.Me)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
