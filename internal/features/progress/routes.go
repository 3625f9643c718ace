package progress

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches progress endpoints to the router. Every endpoint
// requires an authenticated caller.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated gin.HandlerFunc) {
	group := router.Group("/progress", authenticated)
	{
		group.GET("/:courseId", handler.Get)
		group.POST("/:courseId/lecture/:lectureId/view", handler.UpdateLecture)
		group.POST("/:courseId/complete", handler.MarkCompleted)
		group.POST("/:courseId/incomplete", handler.MarkIncomplete)
	}
}
