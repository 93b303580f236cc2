package repository

import (
	"context"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"

	"gorm.io/gorm"
)

// PolicyRepository defines data access for cancellation policies
type PolicyRepository interface {
	Create(ctx context.Context, policy *model.CancellationPolicy) error
	Update(ctx context.Context, policy *model.CancellationPolicy) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.CancellationPolicy, error)
	List(ctx context.Context) ([]model.CancellationPolicy, error)
	CountBookings(ctx context.Context, id uint) (int64, error)
}

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(ctx context.Context, policy *model.CancellationPolicy) error {
	return GetDB(ctx, r.db).Create(policy).Error
}

func (r *policyRepository) Update(ctx context.Context, policy *model.CancellationPolicy) error {
	return GetDB(ctx, r.db).Save(policy).Error
}

func (r *policyRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CancellationPolicy{}).Error
}

func (r *policyRepository) FindByID(ctx context.Context, id uint) (*model.CancellationPolicy, error) {
	var policy model.CancellationPolicy
	if err := GetDB(ctx, r.db).First(&policy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) List(ctx context.Context) ([]model.CancellationPolicy, error) {
	var policies []model.CancellationPolicy
	if err := GetDB(ctx, r.db).Order("type, group_name").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// CountBookings reports how many bookings reference the policy. Used to
// block deletion of policies that are still in use.
func (r *policyRepository) CountBookings(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Booking{}).Where("policy_id = ?", id).Count(&count).Error
	return count, err
}
