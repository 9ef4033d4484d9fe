package models

import (
	"time"

	"github.com/google/uuid"
)

// Retailer is the purchasing tenant. Carts, addresses and orders are always
// scoped to one retailer.
type Retailer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CNPJ         string    `gorm:"column:cnpj;not null;uniqueIndex"`
	RazaoSocial  string    `gorm:"column:razao_social;not null"`
	NomeFantasia *string   `gorm:"column:nome_fantasia"`
	Email        string    `gorm:"column:email;not null"`
	Telefone     *string   `gorm:"column:telefone"`
	Addresses    []Address `gorm:"foreignKey:RetailerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
