package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
)

// Repository defines the persistence surface for retailer addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByRetailer(ctx context.Context, retailerID uuid.UUID) ([]models.Address, error)
	FindByIDAndRetailer(ctx context.Context, id, retailerID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) (*models.Address, error)
	Delete(ctx context.Context, id, retailerID uuid.UUID) error
	CountByRetailer(ctx context.Context, retailerID uuid.UUID) (int64, error)
	ClearPrimary(ctx context.Context, retailerID uuid.UUID) error
	SetPrimary(ctx context.Context, id, retailerID uuid.UUID) error
}
