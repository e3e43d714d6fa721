package app

import (
	"context"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/health"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/app/session"
	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/config"
	"feedbackboard/internal/db"
	"feedbackboard/internal/db/seeder"
	"feedbackboard/internal/gateways/websocket"
	"feedbackboard/internal/providers/mailer"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/router"
	"feedbackboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
	Redis  *redis.RedisProvider
	Hub    *websocket.Hub
}

// Bootstrap wires the application. Background workers stop when ctx is
// cancelled.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	if cfg.SeedDemo {
		seed := seeder.NewSeeder(dbConn, logger)
		if err := seed.Seed(); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	eventBus := utils.NewEventBus()
	sender := mailer.New(cfg, logger)

	sessionRepo := session.NewRepository(dbConn)
	customerRepo := customer.NewRepository(dbConn)
	authzRepo := authz.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	feedbackRepo := feedback.NewRepository(dbConn)
	voteRepo := vote.NewRepository(dbConn)
	commentRepo := comment.NewRepository(dbConn)

	sessionService := session.NewService(sessionRepo, redisProvider, sender, logger, cfg.SessionTTL, cfg.OTPTTL)
	customerService := customer.NewService(customerRepo, logger)
	gate := authz.NewGate(authzRepo, customerService, logger)
	boardService := board.NewService(boardRepo, gate, redisProvider, eventBus, logger)
	feedbackService := feedback.NewService(feedbackRepo, boardRepo, gate, redisProvider, eventBus, logger)
	voteService := vote.NewService(voteRepo, gate, redisProvider, eventBus, logger)
	commentService := comment.NewService(commentRepo, gate, redisProvider, eventBus, logger)

	resolver := identity.NewResolver(sessionService, logger)

	hub := websocket.NewHub(logger, boardService, gate, eventBus)
	go hub.Run(ctx)

	healthHandler := health.NewHandler(health.NewService(
		&utils.HealthChecker{
			DB:    dbConn,
			Redis: redisProvider.Client,
		},
		hub,
	))
	sessionHandler := session.NewHandler(sessionService, customerService, logger)
	boardHandler := board.NewHandler(boardService, gate, logger)
	feedbackHandler := feedback.NewHandler(feedbackService, boardService, gate, logger)
	voteHandler := vote.NewHandler(voteService, logger)
	commentHandler := comment.NewHandler(commentService, logger)

	r := router.NewRouter(cfg, resolver, logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterSessionRoutes(sessionHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterFeedbackRoutes(feedbackHandler)
	r.RegisterVoteRoutes(voteHandler)
	r.RegisterCommentRoutes(commentHandler)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router: r,
		DB:     dbConn,
		Redis:  redisProvider,
		Hub:    hub,
	}, nil
}

// Close releases the connections opened by Bootstrap.
func (a *Application) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
