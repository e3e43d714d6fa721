package router

import (
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/health"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/app/session"
	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/config"
	"feedbackboard/internal/gateways/websocket"
	"feedbackboard/internal/middleware"

	_ "feedbackboard/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
	api    *gin.RouterGroup
}

func NewRouter(cfg *config.Config, resolver *identity.Resolver, logger *zap.Logger) *Router {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware(cfg))
	engine.Use(middleware.IdentityMiddleware(resolver))
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine, api: engine.Group("/api")}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterSessionRoutes(handler session.Handler) {
	session.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterFeedbackRoutes(handler feedback.Handler) {
	feedback.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterVoteRoutes(handler vote.Handler) {
	vote.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterCommentRoutes(handler comment.Handler) {
	comment.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
