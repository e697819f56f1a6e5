package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(allowed []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(allowed))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"any origin echoed", nil, "http://localhost:3000", http.MethodGet, http.StatusOK, "http://localhost:3000"},
		{"listed origin", []string{"https://ops.example.com"}, "https://ops.example.com", http.MethodGet, http.StatusOK, "https://ops.example.com"},
		{"unlisted origin", []string{"https://ops.example.com"}, "https://evil.example.com", http.MethodGet, http.StatusOK, ""},
		{"no origin header", nil, "", http.MethodGet, http.StatusOK, ""},
		{"preflight", nil, "http://localhost:3000", http.MethodOptions, http.StatusNoContent, "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			newCORSRouter(tt.allowed).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
