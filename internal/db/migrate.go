package db

import (
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/session"
	"feedbackboard/internal/app/vote"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models in dependency order; foreign keys point backwards in this list.
var models = []interface{}{
	&customer.Customer{},
	&board.Board{},
	&feedback.Feedback{},
	&vote.Vote{},
	&comment.Comment{},
	&session.Session{},
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		return err
	}
	logger.Info("Database migrated", zap.Int("tables", len(models)))
	return nil
}
