package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/internal/address"
	"github.com/pinnlabs/varejo-backend/internal/cart"
	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service splits the retailer's cart into per-wholesaler orders.
type Service interface {
	Finalize(ctx context.Context, retailerID uuid.UUID, input FinalizeInput) ([]OrderSummary, error)
}

type service struct {
	repo            Repository
	cartRepo        cart.Repository
	catalogRepo     catalog.Repository
	addressRepo     address.Repository
	tx              txRunner
	logg            *logger.Logger
	defaultMinOrder decimal.Decimal
}

// NewService builds the checkout service.
func NewService(
	repo Repository,
	cartRepo cart.Repository,
	catalogRepo catalog.Repository,
	addressRepo address.Repository,
	tx txRunner,
	logg *logger.Logger,
	defaultMinOrder string,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if addressRepo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	minimum, err := decimal.NewFromString(strings.TrimSpace(defaultMinOrder))
	if err != nil {
		return nil, fmt.Errorf("invalid default minimum order value %q: %w", defaultMinOrder, err)
	}
	return &service{
		repo:            repo,
		cartRepo:        cartRepo,
		catalogRepo:     catalogRepo,
		addressRepo:     addressRepo,
		tx:              tx,
		logg:            logg,
		defaultMinOrder: minimum,
	}, nil
}

// Finalize validates the whole cart and, inside one transaction, creates one
// pending order per wholesaler and removes the consumed cart lines. Any
// failure rolls the entire checkout back; there is no partial success.
func (s *service) Finalize(ctx context.Context, retailerID uuid.UUID, input FinalizeInput) ([]OrderSummary, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}

	var summaries []OrderSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txCartRepo := s.cartRepo.WithTx(tx)
		txRepo := s.repo.WithTx(tx)

		cartRow, err := txCartRepo.FindByRetailer(ctx, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "carrinho vazio")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		groups, err := s.validate(ctx, retailerID, cartRow, input)
		if err != nil {
			return err
		}

		summaries = make([]OrderSummary, 0, len(groups))
		checkedOut := make([]uuid.UUID, 0, len(groups))
		for _, group := range groups {
			order := buildOrder(retailerID, group)
			if _, err := txRepo.CreateOrder(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}
			summaries = append(summaries, OrderSummary{
				PedidoID:     order.ID,
				AtacadistaID: order.WholesalerID,
				ValorTotal:   order.ValorTotal,
			})
			checkedOut = append(checkedOut, group.Wholesaler.ID)
		}

		if err := txCartRepo.DeleteItemsByWholesalers(ctx, cartRow.ID, checkedOut); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
		}

		remaining := make([]models.CartItem, 0)
		consumed := make(map[uuid.UUID]struct{}, len(checkedOut))
		for _, id := range checkedOut {
			consumed[id] = struct{}{}
		}
		for _, item := range cartRow.Items {
			if _, ok := consumed[item.WholesalerID]; !ok {
				remaining = append(remaining, item)
			}
		}
		cartRow.Items = remaining
		cartRow.RecomputeTotal()
		if err := txCartRepo.UpdateTotal(ctx, cartRow.ID, cartRow.ValorTotal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithRetailerID(ctx, retailerID.String())
	s.logg.Info(s.logg.WithField(ctx, "pedidos_criados", len(summaries)), "checkout finalizado")
	return summaries, nil
}

// buildOrder snapshots one validated group into an immutable order document.
// Prices, descriptions and the delivery address are copied by value so later
// catalog changes never rewrite history.
func buildOrder(retailerID uuid.UUID, group validatedGroup) *models.Order {
	order := &models.Order{
		ID:                uuid.New(),
		RetailerID:        retailerID,
		WholesalerID:      group.Wholesaler.ID,
		Status:            enums.OrderStatusPendente,
		CondicaoPagamento: group.Term,
		EnderecoEntrega:   group.Address,
		ValorTotal:        group.Subtotal,
		Items:             make([]models.OrderItem, 0, len(group.Items)),
	}
	for _, item := range group.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:               uuid.New(),
			OrderID:          order.ID,
			ProductID:        item.ProductID,
			DescricaoProduto: item.DescricaoProduto,
			Unidade:          item.Unidade,
			Quantidade:       item.Quantidade,
			ValorUnitario:    item.PrecoUnitario,
			ValorTotal:       item.Subtotal,
		})
	}
	return order
}

func normalizeTerm(term string) string {
	return strings.ToUpper(strings.TrimSpace(term))
}
