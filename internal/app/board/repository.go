package board

import (
	"context"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id string) (*Board, error)
	GetBySlug(ctx context.Context, slug string) (*Board, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Board, error)
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Board) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(b).Error, "board not found")
}

func (r *repository) GetByID(ctx context.Context, id string) (*Board, error) {
	var b Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, apperr.FromDB(err, "board not found")
	}
	return &b, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Board, error) {
	var b Board
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error; err != nil {
		return nil, apperr.FromDB(err, "board not found")
	}
	return &b, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]*Board, error) {
	var boards []*Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, apperr.FromDB(err, "board not found")
}

func (r *repository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Board{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperr.FromDB(err, "board not found")
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, b *Board) error {
	res := r.db.WithContext(ctx).Model(&Board{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"name":              b.Name,
			"description":       b.Description,
			"slug":              b.Slug,
			"is_public":         b.IsPublic,
			"requires_approval": b.RequiresApproval,
			"updated_at":        b.UpdatedAt,
		})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "board not found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("board not found")
	}
	return nil
}

// Delete removes the board and everything hanging off it in one
// transaction, so no vote, comment or feedback row outlives its board even
// where foreign key cascades are missing.
func (r *repository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM votes
			WHERE feedback_id IN (SELECT id FROM feedback WHERE board_id = ?)
		`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`
			DELETE FROM comments
			WHERE feedback_id IN (SELECT id FROM feedback WHERE board_id = ?)
		`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM feedback WHERE board_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Board{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("board not found")
		}
		return nil
	})
	return apperr.FromDB(err, "board not found")
}
