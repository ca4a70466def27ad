package gin_middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		zaplog.InfoC(ctx.Request.Context(), "request initiated", zap.String("method", ctx.Request.Method), zap.String("path", ctx.Request.URL.Path))
		ctx.Next()
		latency := time.Since(start)
		statusCode := ctx.Writer.Status()
		zaplog.InfoC(ctx.Request.Context(), "request completed", zap.String("path", ctx.Request.URL.Path), zap.Int("status", statusCode), zap.Duration("latency", latency))
	}
}

// ContextMiddleware swaps the request context for baseCtx so handlers log through the injected logger.
func ContextMiddleware(baseCtx context.Context) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Request = ctx.Request.WithContext(baseCtx)
		ctx.Next()
	}
}

// LoopbackOnly rejects any client that is not on the local machine.
func LoopbackOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		host, _, err := net.SplitHostPort(ctx.Request.RemoteAddr)
		if err != nil {
			host = ctx.Request.RemoteAddr
		}
		if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
			zaplog.WarnC(ctx.Request.Context(), "rejected non-local client", zap.String("remote", ctx.Request.RemoteAddr))
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "local clients only"})
			return
		}
		ctx.Next()
	}
}

func NewGinEngine(ctx context.Context) *gin.Engine {
	r := gin.New()
	r.ContextWithFallback = true
	r.Use(ContextMiddleware(ctx))
	r.Use(LoggingMiddleware())
	r.Use(gin.Recovery())
	r.Use(LoopbackOnly())
	return r
}
