package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/http/middleware"
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

func TestApplicationHandler_StatusConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ApplicationHandler{applications: nil}
	r.GET("/applications/status-config", handler.StatusConfig)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/status-config", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var entries []valueobject.StatusPolicyEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Equal(t, valueobject.StatusPolicy(), entries)
}

func TestApplicationHandler_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ApplicationHandler{applications: nil}
	r.POST("/applications", handler.Submit)
	r.GET("/applications/:id", handler.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationHandler_BadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		c.Set(middleware.ContextRoleKey, models.RoleJobSeeker)
		c.Next()
	})
	handler := &ApplicationHandler{applications: nil}
	r.POST("/applications", handler.Submit)
	r.GET("/applications/:id/status-history", handler.StatusHistory)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("job_id", "not-a-uuid"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/applications", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/invalid-uuid/status-history", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `inline; filename="cv.pdf"; filename*=UTF-8''cv.pdf`, contentDisposition("inline", "cv.pdf"))
	assert.Equal(t,
		`attachment; filename="______.pdf"; filename*=UTF-8''%D1%80%D0%B5%D0%B7%D1%8E%D0%BC%D0%B5.pdf`,
		contentDisposition("attachment", "резюме.pdf"))
}
