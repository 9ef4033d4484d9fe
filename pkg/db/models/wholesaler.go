package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Wholesaler is a catalog seller with its own minimum order value and
// payment-term offers.
type Wholesaler struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CNPJ               string             `gorm:"column:cnpj;not null;uniqueIndex"`
	RazaoSocial        string             `gorm:"column:razao_social;not null"`
	NomeFantasia       *string            `gorm:"column:nome_fantasia"`
	PedidoMinimo       decimal.Decimal    `gorm:"column:pedido_minimo;type:numeric(12,2);not null;default:0"`
	CondicoesPagamento types.PaymentTerms `gorm:"column:condicoes_pagamento;type:jsonb;serializer:json"`
	Ativo              bool               `gorm:"column:ativo;not null;default:true"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName prefers the trade name over the registered company name.
func (w Wholesaler) DisplayName() string {
	if w.NomeFantasia != nil && *w.NomeFantasia != "" {
		return *w.NomeFantasia
	}
	return w.RazaoSocial
}
