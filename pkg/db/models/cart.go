package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single mutable cart of a retailer. It spans all wholesalers;
// checkout splits it into per-wholesaler orders and removes the consumed
// lines.
type Cart struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RetailerID uuid.UUID       `gorm:"column:retailer_id;type:uuid;not null;uniqueIndex"`
	ValorTotal decimal.Decimal `gorm:"column:valor_total;type:numeric(12,2);not null;default:0"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// RecomputeTotal sets valor_total to the sum of line subtotals.
func (c *Cart) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal)
	}
	c.ValorTotal = total
}
