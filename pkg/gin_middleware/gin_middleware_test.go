package gin_middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gcottom/go-zaplog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoopbackOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewGinEngine(zaplog.CreateAndInject(context.Background()))
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })

	tests := []struct {
		remote string
		want   int
	}{
		{"127.0.0.1:50000", http.StatusOK},
		{"[::1]:50000", http.StatusOK},
		{"192.0.2.1:1234", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = tt.remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.remote)
	}
}
