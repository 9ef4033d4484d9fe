package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
)

// Repository defines the persistence surface for retailer users.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.RetailerUser, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an auth repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (*models.RetailerUser, error) {
	var user models.RetailerUser
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
