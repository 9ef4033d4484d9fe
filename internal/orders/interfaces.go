package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
)

// Repository defines the persistence surface for retailer orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByRetailer(ctx context.Context, retailerID uuid.UUID, filters Filters, params pagination.Params) ([]models.Order, int64, error)
	FindByIDAndRetailer(ctx context.Context, id, retailerID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// Filters describe the inputs supported by the order list.
type Filters struct {
	Status       *enums.OrderStatus
	WholesalerID *uuid.UUID
}
