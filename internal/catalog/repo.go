package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("ativo = ?", true)

	if filters.WholesalerID != nil {
		query = query.Where("wholesaler_id = ?", *filters.WholesalerID)
	}
	if categoria := strings.TrimSpace(filters.Categoria); categoria != "" {
		query = query.Where("categoria = ?", categoria)
	}
	if term := strings.TrimSpace(filters.Query); term != "" {
		query = query.Where("descricao LIKE ?", "%"+term+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Prices").
		Order("descricao ASC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindWholesalerByID(ctx context.Context, id uuid.UUID) (*models.Wholesaler, error) {
	var wholesaler models.Wholesaler
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&wholesaler).Error
	if err != nil {
		return nil, err
	}
	return &wholesaler, nil
}

func (r *repository) FindWholesalersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Wholesaler, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Wholesaler
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListWholesalers(ctx context.Context, params pagination.Params) ([]models.Wholesaler, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.Wholesaler{}).
		Where("ativo = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Wholesaler
	err := query.
		Order("razao_social ASC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
