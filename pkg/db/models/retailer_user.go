package models

import (
	"time"

	"github.com/google/uuid"
)

// RetailerUser authenticates against the portal on behalf of a retailer.
type RetailerUser struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RetailerID uuid.UUID `gorm:"column:retailer_id;type:uuid;not null"`
	Nome       string    `gorm:"column:nome;not null"`
	Email      string    `gorm:"column:email;not null;uniqueIndex"`
	SenhaHash  string    `gorm:"column:senha_hash;not null"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
