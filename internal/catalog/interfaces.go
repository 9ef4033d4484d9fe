package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
)

// Repository defines the read surface over products and wholesalers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, int64, error)
	FindWholesalerByID(ctx context.Context, id uuid.UUID) (*models.Wholesaler, error)
	FindWholesalersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Wholesaler, error)
	ListWholesalers(ctx context.Context, params pagination.Params) ([]models.Wholesaler, int64, error)
}

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	WholesalerID *uuid.UUID
	Categoria    string
	Query        string
}
