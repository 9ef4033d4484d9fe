package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListByRetailer returns addresses with the primary first, then oldest first.
func (r *repository) ListByRetailer(ctx context.Context, retailerID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("retailer_id = ?", retailerID).
		Order("eh_principal DESC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByIDAndRetailer(ctx context.Context, id, retailerID uuid.UUID) (*models.Address, error) {
	var row models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND retailer_id = ?", id, retailerID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (r *repository) Update(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (r *repository) Delete(ctx context.Context, id, retailerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND retailer_id = ?", id, retailerID).
		Delete(&models.Address{}).Error
}

func (r *repository) CountByRetailer(ctx context.Context, retailerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("retailer_id = ?", retailerID).
		Count(&count).Error
	return count, err
}

func (r *repository) ClearPrimary(ctx context.Context, retailerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("retailer_id = ? AND eh_principal = ?", retailerID, true).
		Update("eh_principal", false).Error
}

func (r *repository) SetPrimary(ctx context.Context, id, retailerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND retailer_id = ?", id, retailerID).
		Update("eh_principal", true).Error
}
