package comment

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.GET("/feedback/:id/comments", handler.List)
	rg.GET("/feedback/:id/comments/count", handler.Count)
	rg.POST("/feedback/:id/comments", handler.Create)

	comments := rg.Group("/comments")
	{
		comments.PATCH("/:id", handler.Update)
		comments.DELETE("/:id", handler.Delete)
		comments.POST("/:id/official", handler.MarkOfficial)
	}
}
