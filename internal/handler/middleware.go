package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell/backend/internal/model"
	"github.com/inkwell/backend/internal/service"
	"go.uber.org/zap"
)

const authContextKey = "auth_context"

// AuthContextMiddleware derives the request's auth context from the
// Authorization header. It never rejects: a missing or bad token just
// leaves the request anonymous. Route groups that need a user stack
// RequireAuth on top.
func AuthContextMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		c.Set(authContextKey, authCtx)
		c.Next()
	}
}

// GetAuthContext returns the context set by AuthContextMiddleware, or the
// anonymous context when the middleware did not run.
func GetAuthContext(c *gin.Context) model.AuthContext {
	if value, ok := c.Get(authContextKey); ok {
		if authCtx, ok := value.(model.AuthContext); ok {
			return authCtx
		}
	}
	return model.AuthContext{}
}

// RequireAuth rejects requests whose derived context has no user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !GetAuthContext(c).IsAuthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger tags every request with an id and logs method, path,
// status and latency.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
