package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Selection is the retailer's per-wholesaler checkout choice. Both fields are
// optional; validation falls back to the primary address and the cash term.
type Selection struct {
	EnderecoID        *uuid.UUID
	CondicaoPagamento *string
}

// FinalizeInput carries the selections keyed by wholesaler.
type FinalizeInput struct {
	Selections map[uuid.UUID]Selection
}

// OrderSummary is what the retailer receives per created order.
type OrderSummary struct {
	PedidoID     uuid.UUID       `json:"pedido_id"`
	AtacadistaID uuid.UUID       `json:"atacadista_id"`
	ValorTotal   decimal.Decimal `json:"valor_total"`
}

// MinOrderDetails is the structured payload of a minimum-order failure. The
// client uses it to drive the "add more items from this wholesaler" flow.
type MinOrderDetails struct {
	AtacadistaID    uuid.UUID       `json:"atacadista_id"`
	AtacadistaNome  string          `json:"atacadista_nome"`
	ValorTotalAtual decimal.Decimal `json:"valor_total_atual"`
	PedidoMinimo    decimal.Decimal `json:"pedido_minimo"`
	Faltante        decimal.Decimal `json:"faltante"`
}

// validatedGroup is one wholesaler slice of the cart after validation, ready
// for the order splitter.
type validatedGroup struct {
	Wholesaler models.Wholesaler
	Items      []models.CartItem
	Subtotal   decimal.Decimal
	Address    types.DeliveryAddress
	Term       string
}
