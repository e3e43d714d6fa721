package board

import (
	"time"

	"feedbackboard/internal/app/customer"
)

type Board struct {
	ID               string             `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID          string             `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner            *customer.Customer `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name             string             `json:"name" gorm:"not null"`
	Description      *string            `json:"description,omitempty"`
	Slug             string             `json:"slug" gorm:"uniqueIndex;not null"`
	IsPublic         bool               `json:"is_public" gorm:"not null;default:false"`
	RequiresApproval bool               `json:"requires_approval" gorm:"not null"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type CreateBoardInput struct {
	Name             string  `json:"name" validate:"required,min=3"`
	Description      *string `json:"description"`
	Slug             string  `json:"slug" validate:"required,min=3,slug"`
	IsPublic         *bool   `json:"is_public"`
	RequiresApproval *bool   `json:"requires_approval"`
}

type UpdateBoardInput struct {
	Name             *string `json:"name" validate:"omitempty,min=3"`
	Description      *string `json:"description"`
	Slug             *string `json:"slug" validate:"omitempty,min=3,slug"`
	IsPublic         *bool   `json:"is_public"`
	RequiresApproval *bool   `json:"requires_approval"`
}

type UpdateResult struct {
	Board *Board `json:"board"`
	// PreviousSlug is set when the slug changed; URLs keyed by it are stale
	// and callers must redirect to the new slug.
	PreviousSlug string `json:"previous_slug,omitempty"`
}

type BoardListResponse struct {
	Boards []*Board `json:"boards"`
}
