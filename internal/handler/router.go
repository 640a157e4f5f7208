package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/backend/internal/service"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Auth           *service.AuthService
	Posts          *service.PostService
	Users          *service.UserService
	Logger         *zap.Logger
	AllowedOrigins string
}

// NewRouter wires middleware and all routes. Every request gets an auth
// context derived from its Authorization header; only mutating routes
// require one with a user in it.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(CORSMiddleware(strings.Split(deps.AllowedOrigins, ",")))
	router.Use(AuthContextMiddleware(deps.Auth))

	router.GET("/", Root)
	router.GET("/ping", Ping)
	router.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	postHandler := NewPostHandler(deps.Posts, deps.Logger)
	userHandler := NewUserHandler(deps.Users, deps.Logger)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)

		api.GET("/users", userHandler.List)
		api.GET("/users/:id", userHandler.Get)
	}

	protected := api.Group("")
	protected.Use(RequireAuth())
	{
		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)

		protected.PUT("/users/:id", userHandler.Update)
		protected.DELETE("/users/:id", userHandler.Delete)
	}

	return router
}
