package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches auth endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.GET("/profile", authenticated, handler.Profile)
	}
}
