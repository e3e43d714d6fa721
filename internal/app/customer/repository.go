package customer

import (
	"context"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(c).Error, "customer not found")
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, apperr.FromDB(err, "customer not found")
	}
	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, apperr.FromDB(err, "customer not found")
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]*Customer, error) {
	var customers []*Customer
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&customers).Error
	return customers, apperr.FromDB(err, "customer not found")
}
