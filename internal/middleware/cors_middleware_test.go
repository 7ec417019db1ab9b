package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS(origins))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func corsRequest(engine *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestCORSAllowlistedOrigin(t *testing.T) {
	engine := corsEngine([]string{"http://localhost:5173", " https://fasting.example.com "})

	recorder := corsRequest(engine, http.MethodGet, "https://fasting.example.com")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "https://fasting.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", recorder.Header().Get("Vary"))
}

func TestCORSUnknownOriginGetsNoAllowHeader(t *testing.T) {
	engine := corsEngine([]string{"http://localhost:5173"})

	recorder := corsRequest(engine, http.MethodGet, "https://evil.example.com")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	engine := corsEngine([]string{"*"})

	recorder := corsRequest(engine, http.MethodGet, "https://anywhere.example.com")
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	engine := corsEngine([]string{"http://localhost:5173"})

	recorder := corsRequest(engine, http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "GET,POST,PUT,OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
}
