package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/enums"
)

// ProductPrice is one row of a product's price table: the price charged for
// the given unit of measure and how many base units that package holds.
type ProductPrice struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_prices_unit"`
	Unidade            enums.Unit      `gorm:"column:unidade;not null;uniqueIndex:idx_product_prices_unit"`
	Preco              decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null"`
	QuantidadeUnidades int             `gorm:"column:quantidade_unidades;not null;default:1"`
}
