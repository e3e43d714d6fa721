package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/otp", handler.RequestCode)
		auth.POST("/verify", handler.Verify)
		auth.GET("/me", handler.Me)
		auth.DELETE("/session", handler.SignOut)
	}
}
