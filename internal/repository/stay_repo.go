package repository

import (
	"context"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StayRepository defines data access for listings
type StayRepository interface {
	Create(ctx context.Context, stay *model.Stay) error
	Update(ctx context.Context, stay *model.Stay) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Stay, error)
	List(ctx context.Context, page, limit int) ([]model.Stay, int64, error)
}

type stayRepository struct {
	db *gorm.DB
}

func NewStayRepository(db *gorm.DB) StayRepository {
	return &stayRepository{db: db}
}

func (r *stayRepository) Create(ctx context.Context, stay *model.Stay) error {
	return GetDB(ctx, r.db).Create(stay).Error
}

func (r *stayRepository) Update(ctx context.Context, stay *model.Stay) error {
	return GetDB(ctx, r.db).Save(stay).Error
}

func (r *stayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Stay{}).Error
}

func (r *stayRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Stay, error) {
	var stay model.Stay
	if err := GetDB(ctx, r.db).First(&stay, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stay, nil
}

func (r *stayRepository) List(ctx context.Context, page, limit int) ([]model.Stay, int64, error) {
	var stays []model.Stay
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Stay{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&stays).Error; err != nil {
		return nil, 0, err
	}

	return stays, total, nil
}
