package medicines

import (
	"context"
	"errors"
	"time"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a decrement would take a quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository manages persistence for medicine stock records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, medicine *models.Medicine) error
	Update(ctx context.Context, medicine *models.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	FindByIDForClinic(ctx context.Context, id uuid.UUID, clinic string) (*models.Medicine, error)
	FindByNameAndClinic(ctx context.Context, name, clinic string) (*models.Medicine, error)
	List(ctx context.Context, clinic string) ([]models.Medicine, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.Medicine, error)
	Clinics(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a medicine repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

func (r *repository) Update(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Save(medicine).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Medicine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *repository) FindByIDForClinic(ctx context.Context, id uuid.UUID, clinic string) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.WithContext(ctx).
		First(&medicine, "id = ? AND clinic = ?", id, clinic).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *repository) FindByNameAndClinic(ctx context.Context, name, clinic string) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?) AND clinic = ?", name, clinic).
		First(&medicine).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *repository) List(ctx context.Context, clinic string) ([]models.Medicine, error) {
	query := r.db.WithContext(ctx).Model(&models.Medicine{})
	if clinic != "" {
		query = query.Where("clinic = ?", clinic)
	}
	var medicines []models.Medicine
	if err := query.Order("name ASC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

// AdjustQuantity applies the delta as a single conditional update so the
// non-negativity check and the write cannot be interleaved by another writer.
func (r *repository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.Medicine, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Medicine{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, ErrInsufficientStock
	}
	return r.FindByID(ctx, id)
}

func (r *repository) Clinics(ctx context.Context) ([]string, error) {
	var clinics []string
	if err := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Distinct("clinic").
		Order("clinic ASC").
		Pluck("clinic", &clinics).Error; err != nil {
		return nil, err
	}
	return clinics, nil
}
