package seeder

import (
	"time"

	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/feedback"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DemoEmail = "demo@feedbackboard.dev"
	DemoSlug  = "demo"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// Seed creates a demo customer with one public board. It is a no-op once
// the demo customer exists.
func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	var count int64
	if err := s.db.Model(&customer.Customer{}).Where("email = ?", DemoEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Demo customer already exists, skipping seed")
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		owner := customer.Customer{
			ID:        uuid.NewString(),
			Email:     DemoEmail,
			Name:      "Demo Inc",
			Slug:      DemoSlug,
			CreatedAt: now,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		b := board.Board{
			ID:               uuid.NewString(),
			OwnerID:          owner.ID,
			Name:             "Demo feedback",
			Description:      ptr("Tell us what to build next"),
			Slug:             DemoSlug,
			IsPublic:         true,
			RequiresApproval: true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}

		items := []feedback.Feedback{
			{Title: "Dark mode", Description: "Please add a dark theme to the widget", Type: feedback.TypeImprovement, IsApproved: true},
			{Title: "Export to CSV", Description: "We need to export feedback for our weekly review", Type: feedback.TypeFeedback, IsApproved: true},
			{Title: "Broken button", Description: "The submit button does nothing on Safari", Type: feedback.TypeBug, IsApproved: false},
		}
		for i := range items {
			items[i].ID = uuid.NewString()
			items[i].BoardID = b.ID
			items[i].Status = feedback.StatusOpen
			items[i].CreatedAt = now.Add(-time.Duration(i) * time.Hour)
			items[i].UpdatedAt = items[i].CreatedAt
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully", zap.String("board", DemoSlug))
	return nil
}

func ptr(s string) *string {
	return &s
}
