package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	boards := rg.Group("/boards")
	{
		boards.GET("", handler.ListBoards)
		boards.POST("", handler.CreateBoard)
		boards.GET("/:slug", handler.GetBoard)
		boards.GET("/:slug/settings", handler.GetBoardSettings)
		boards.PATCH("/:slug", handler.UpdateBoard)
		boards.DELETE("/:slug", handler.DeleteBoard)
	}
}
