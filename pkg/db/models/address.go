package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Address is a delivery address owned by a retailer. Exactly one address per
// retailer carries the primary flag.
type Address struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RetailerID  uuid.UUID `gorm:"column:retailer_id;type:uuid;not null;index"`
	Descricao   string    `gorm:"column:descricao;not null"`
	Logradouro  string    `gorm:"column:logradouro;not null"`
	Numero      string    `gorm:"column:numero;not null"`
	Bairro      string    `gorm:"column:bairro;not null"`
	Cidade      string    `gorm:"column:cidade;not null"`
	UF          string    `gorm:"column:uf;not null"`
	CEP         string    `gorm:"column:cep;not null"`
	Complemento *string   `gorm:"column:complemento"`
	IsPrimary   bool      `gorm:"column:eh_principal;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Snapshot converts the row into the value copy embedded in orders.
func (a Address) Snapshot() types.DeliveryAddress {
	return types.DeliveryAddress{
		Descricao:   a.Descricao,
		Logradouro:  a.Logradouro,
		Numero:      a.Numero,
		Bairro:      a.Bairro,
		Cidade:      a.Cidade,
		UF:          a.UF,
		CEP:         a.CEP,
		Complemento: a.Complemento,
	}
}
