package models

import (
	"time"

	"github.com/google/uuid"
)

// Product belongs to exactly one wholesaler and carries a per-unit price
// table.
type Product struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WholesalerID uuid.UUID      `gorm:"column:wholesaler_id;type:uuid;not null;index"`
	Descricao    string         `gorm:"column:descricao;not null"`
	Categoria    *string        `gorm:"column:categoria"`
	Ativo        bool           `gorm:"column:ativo;not null;default:true"`
	Prices       []ProductPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
