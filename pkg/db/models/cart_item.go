package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/enums"
)

// CartItem is one cart line. A product appears at most once per cart;
// re-adding replaces quantity/unit/price instead of duplicating. Position
// preserves insertion order, which also drives checkout group ordering.
type CartItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_product"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_product"`
	WholesalerID     uuid.UUID       `gorm:"column:wholesaler_id;type:uuid;not null;index"`
	DescricaoProduto string          `gorm:"column:descricao_produto;not null"`
	Quantidade       int             `gorm:"column:quantidade;not null"`
	Unidade          enums.Unit      `gorm:"column:unidade;not null"`
	PrecoUnitario    decimal.Decimal `gorm:"column:preco_unitario;type:numeric(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Position         int             `gorm:"column:position;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
