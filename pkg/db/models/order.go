package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/enums"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Order is the per-wholesaler document produced by checkout. Prices,
// descriptions and the delivery address are value copies taken at checkout
// time; only the status changes afterwards.
type Order struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RetailerID        uuid.UUID             `gorm:"column:retailer_id;type:uuid;not null;index"`
	WholesalerID      uuid.UUID             `gorm:"column:wholesaler_id;type:uuid;not null;index"`
	Status            enums.OrderStatus     `gorm:"column:status;not null;default:'pendente'"`
	CondicaoPagamento string                `gorm:"column:condicao_pagamento;not null"`
	EnderecoEntrega   types.DeliveryAddress `gorm:"column:endereco_entrega;type:jsonb;serializer:json"`
	ValorTotal        decimal.Decimal       `gorm:"column:valor_total;type:numeric(12,2);not null"`
	Items             []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
