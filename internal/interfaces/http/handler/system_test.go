package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("billing-backend", "1.2.3")
	assert.Equal(t, "billing-backend", h.name)
	assert.Equal(t, "1.2.3", h.version)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("billing-backend", "1.2.3")
	c, w := newTestContext(t, "")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "billing-backend", resp.Data.Name)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.Equal(t, runtime.Version(), resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("billing-backend", "dev")
	c, w := newTestContext(t, "")

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data PingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data.Message)
	assert.NotEmpty(t, resp.Data.Timestamp)
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("billing-backend", "dev")
	router := gin.New()
	router.GET("/health", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}
