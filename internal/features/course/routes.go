package course

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches catalog endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	courses := router.Group("/courses")
	{
		courses.GET("", handler.List)
		courses.GET("/:courseId", handler.GetByID)
	}
}
