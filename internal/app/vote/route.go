package vote

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.POST("/feedback/:id/vote", handler.ToggleVote)
	rg.GET("/feedback/:id/vote", handler.HasVoted)
	rg.POST("/votes/lookup", handler.Lookup)
}
