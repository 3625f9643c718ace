package purchase

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches purchase endpoints to the router. The verification
// callback is deliberately unauthenticated: the gateway cannot present a
// bearer token, and the request signature is its credential.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated gin.HandlerFunc) {
	group := router.Group("/purchase")
	{
		group.POST("/create-order", authenticated, handler.CreateOrder)
		group.POST("/verify-payment", handler.VerifyPayment)
		group.GET("/course/:courseId/detail-with-status", authenticated, handler.DetailWithStatus)
		group.GET("", authenticated, handler.ListCompleted)
	}
}
