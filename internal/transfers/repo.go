package transfers

import (
	"context"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for transfer audit rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transfer *models.Transfer) error
	Update(ctx context.Context, transfer *models.Transfer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	ListByClinic(ctx context.Context, clinic string) ([]models.Transfer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transfer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

func (r *repository) Update(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transfer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) ListByClinic(ctx context.Context, clinic string) ([]models.Transfer, error) {
	query := r.db.WithContext(ctx).Model(&models.Transfer{})
	if clinic != "" {
		query = query.Where("from_clinic = ? OR to_clinic = ?", clinic, clinic)
	}
	var transfers []models.Transfer
	if err := query.Order("date DESC, created_at DESC").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
