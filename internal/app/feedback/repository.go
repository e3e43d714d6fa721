package feedback

import (
	"context"
	"time"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context, q ListQuery) ([]*Feedback, error)
	// Approve reports whether the row changed; approving twice is a no-op.
	Approve(ctx context.Context, id string, at time.Time) (bool, error)
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(f).Error, "feedback not found")
}

func (r *repository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	var f Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, apperr.FromDB(err, "feedback not found")
	}
	return &f, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]*Feedback, error) {
	query := r.db.WithContext(ctx).Where("board_id = ?", q.BoardID)
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	switch q.Approval {
	case FilterPending:
		query = query.Where("is_approved = ?", false)
	case FilterApproved:
		query = query.Where("is_approved = ?", true)
	}
	if q.Sort == SortVotes {
		query = query.Order("vote_count DESC")
	}
	query = query.Order("created_at DESC").Order("id")

	var items []*Feedback
	if err := query.Find(&items).Error; err != nil {
		return nil, apperr.FromDB(err, "feedback not found")
	}
	return items, nil
}

func (r *repository) Approve(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Feedback{}).
		Where("id = ? AND is_approved = ?", id, false).
		Updates(map[string]interface{}{"is_approved": true, "updated_at": at})
	if res.Error != nil {
		return false, apperr.FromDB(res.Error, "feedback not found")
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&Feedback{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "feedback not found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("feedback not found")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM votes WHERE feedback_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM comments WHERE feedback_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Feedback{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("feedback not found")
		}
		return nil
	})
	return apperr.FromDB(err, "feedback not found")
}
