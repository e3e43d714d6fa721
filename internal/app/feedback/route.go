package feedback

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.GET("/boards/:slug/feedback", handler.ListPublic)
	rg.GET("/boards/:slug/dashboard", handler.ListForOwner)

	feedback := rg.Group("/feedback")
	{
		feedback.POST("", handler.Submit)
		feedback.GET("/:id", handler.GetFeedback)
		feedback.DELETE("/:id", handler.Delete)
		feedback.POST("/:id/approve", handler.Approve)
		feedback.PATCH("/:id/status", handler.SetStatus)
	}
}
