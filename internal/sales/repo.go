package sales

import (
	"context"
	"time"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/clinistock/backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleList is a cursor page of sales.
type SaleList struct {
	Sales      []models.Sale
	NextCursor *string
}

// Repository manages persistence for sale transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByRange(ctx context.Context, clinic string, from, to time.Time) ([]models.Sale, error)
	ListPage(ctx context.Context, clinic string, from, to time.Time, params pagination.Params) (*SaleList, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a sale repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) Update(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Sale{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListByRange(ctx context.Context, clinic string, from, to time.Time) ([]models.Sale, error) {
	query := r.rangeQuery(ctx, clinic, from, to)
	var sales []models.Sale
	if err := query.Order("sold_at DESC, id DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) ListPage(ctx context.Context, clinic string, from, to time.Time, params pagination.Params) (*SaleList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := r.rangeQuery(ctx, clinic, from, to)
	if cursor != nil {
		query = query.Where(
			"sold_at < ? OR (sold_at = ? AND id < ?)",
			cursor.SoldAt, cursor.SoldAt, cursor.ID,
		)
	}

	var sales []models.Sale
	if err := query.
		Order("sold_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&sales).Error; err != nil {
		return nil, err
	}

	list := &SaleList{Sales: sales}
	if len(sales) > limit {
		list.Sales = sales[:limit]
		last := list.Sales[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{SoldAt: last.SoldAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) rangeQuery(ctx context.Context, clinic string, from, to time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Sale{})
	if clinic != "" {
		query = query.Where("clinic = ?", clinic)
	}
	if !from.IsZero() {
		query = query.Where("sold_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("sold_at <= ?", to)
	}
	return query
}
