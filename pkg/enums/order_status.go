package enums

import "fmt"

// OrderStatus tracks the lifecycle of a wholesaler order. The collection is
// shared with the wholesaler application, so the labels stay in Portuguese.
type OrderStatus string

const (
	OrderStatusPendente  OrderStatus = "pendente"
	OrderStatusAceito    OrderStatus = "aceito"
	OrderStatusRecusado  OrderStatus = "recusado"
	OrderStatusEntregue  OrderStatus = "entregue"
	OrderStatusCancelado OrderStatus = "cancelado"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendente,
	OrderStatusAceito,
	OrderStatusRecusado,
	OrderStatusEntregue,
	OrderStatusCancelado,
}

var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendente: {OrderStatusAceito, OrderStatusRecusado, OrderStatusCancelado},
	OrderStatusAceito:   {OrderStatusEntregue, OrderStatusCancelado},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status change is legal. Line items are
// immutable after creation; status is the only mutable order field.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
