package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/enums"
)

// OrderItem captures the snapshot of each line within an order.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	DescricaoProduto string          `gorm:"column:descricao_produto;not null"`
	Unidade          enums.Unit      `gorm:"column:unidade;not null"`
	Quantidade       int             `gorm:"column:quantidade;not null"`
	ValorUnitario    decimal.Decimal `gorm:"column:valor_unitario;type:numeric(12,2);not null"`
	ValorTotal       decimal.Decimal `gorm:"column:valor_total;type:numeric(12,2);not null"`
}
