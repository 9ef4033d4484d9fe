package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/internal/cart"
	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the retailer order operations.
type Service interface {
	List(ctx context.Context, retailerID uuid.UUID, filters Filters, params pagination.Params) (pagination.Page[Summary], error)
	Get(ctx context.Context, retailerID, orderID uuid.UUID) (*Detail, error)
	UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*Detail, error)
	Duplicate(ctx context.Context, retailerID, orderID uuid.UUID) (*DuplicateResult, error)
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	catalogRepo catalog.Repository
	pricing     catalog.PriceResolver
	tx          txRunner
	logg        *logger.Logger
}

// NewService builds the orders service.
func NewService(
	repo Repository,
	cartRepo cart.Repository,
	catalogRepo catalog.Repository,
	pricing catalog.PriceResolver,
	tx txRunner,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		pricing:     pricing,
		tx:          tx,
		logg:        logg,
	}, nil
}

func (s *service) List(ctx context.Context, retailerID uuid.UUID, filters Filters, params pagination.Params) (pagination.Page[Summary], error) {
	if retailerID == uuid.Nil {
		return pagination.Page[Summary]{}, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}

	rows, total, err := s.repo.ListByRetailer(ctx, retailerID, filters, params)
	if err != nil {
		return pagination.Page[Summary]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	names, err := s.wholesalerNames(ctx, rows)
	if err != nil {
		return pagination.Page[Summary]{}, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, buildSummary(&row, names[row.WholesalerID]))
	}
	return pagination.NewPage(params, summaries, total), nil
}

func (s *service) Get(ctx context.Context, retailerID, orderID uuid.UUID) (*Detail, error) {
	if retailerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer and order ids are required")
	}

	order, err := s.loadOrder(ctx, s.repo, retailerID, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, order)
}

// UpdateStatus applies one lifecycle transition. Orders are immutable apart
// from their status.
func (s *service) UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*Detail, error) {
	if retailerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer and order ids are required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status de pedido invalido")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, txRepo, retailerID, orderID)
		if err != nil {
			return err
		}

		if order.Status == status {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transicao de status nao permitida").
				WithDetails(map[string]any{
					"status_atual": order.Status,
					"status_novo":  status,
				})
		}

		if err := txRepo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, updated)
}

// Duplicate re-adds every line of a past order into the current cart at the
// original quantity and unit, re-resolving the price live. Lines whose
// product vanished or no longer offers the unit are skipped with a warning
// instead of failing the whole operation.
func (s *service) Duplicate(ctx context.Context, retailerID, orderID uuid.UUID) (*DuplicateResult, error) {
	if retailerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer and order ids are required")
	}

	order, err := s.loadOrder(ctx, s.repo, retailerID, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido sem itens")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"retailer_id": retailerID,
		"pedido_id":   orderID,
	})

	result := &DuplicateResult{ItensIgnorados: []string{}}
	var skipped error

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txCartRepo := s.cartRepo.WithTx(tx)
		cartRow, err := s.loadOrCreateCart(ctx, txCartRepo, retailerID)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			quote, err := s.pricing.Resolve(ctx, item.ProductID, item.Unidade)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil &&
					(typed.Code() == pkgerrors.CodeNotFound || typed.Code() == pkgerrors.CodeValidation) {
					skipped = multierr.Append(skipped, fmt.Errorf("%s: %w", item.DescricaoProduto, err))
					result.ItensIgnorados = append(result.ItensIgnorados, item.DescricaoProduto)
					continue
				}
				return err
			}

			line := findLine(cartRow, item.ProductID)
			if line == nil {
				cartRow.Items = append(cartRow.Items, models.CartItem{
					ID:           uuid.New(),
					CartID:       cartRow.ID,
					ProductID:    item.ProductID,
					WholesalerID: quote.Product.WholesalerID,
					Position:     nextPosition(cartRow.Items),
					Quantidade:   item.Quantidade,
				})
				line = &cartRow.Items[len(cartRow.Items)-1]
			} else {
				// duplicating merges on top of what is already there
				line.Quantidade += item.Quantidade
			}

			line.DescricaoProduto = quote.Product.Descricao
			line.Unidade = quote.Unidade
			line.PrecoUnitario = quote.PrecoUnitario
			line.Subtotal = quote.PrecoUnitario.Mul(decimal.NewFromInt(int64(line.Quantidade)))

			if err := txCartRepo.SaveItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
			}
			result.ItensAdicionados++
		}

		cartRow.RecomputeTotal()
		if err := txCartRepo.UpdateTotal(ctx, cartRow.ID, cartRow.ValorTotal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if skipped != nil {
		s.logg.Warn(s.logg.WithField(ctx, "itens_ignorados", multierr.Errors(skipped)), "itens ignorados ao duplicar pedido")
	}
	return result, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, retailerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByIDAndRetailer(ctx, orderID, retailerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido nao encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) loadOrCreateCart(ctx context.Context, repo cart.Repository, retailerID uuid.UUID) (*models.Cart, error) {
	cartRow, err := repo.FindByRetailer(ctx, retailerID)
	if err == nil {
		return cartRow, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cartRow = &models.Cart{
		ID:         uuid.New(),
		RetailerID: retailerID,
		ValorTotal: decimal.Zero,
	}
	if _, err := repo.Create(ctx, cartRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cartRow, nil
}

func (s *service) buildDetail(ctx context.Context, order *models.Order) (*Detail, error) {
	names, err := s.wholesalerNames(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Summary:         buildSummary(order, names[order.WholesalerID]),
		EnderecoEntrega: order.EnderecoEntrega,
		Itens:           make([]ItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Itens = append(detail.Itens, ItemView{
			ProdutoID:     item.ProductID,
			Descricao:     item.DescricaoProduto,
			Unidade:       item.Unidade,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
			ValorTotal:    item.ValorTotal,
		})
	}
	return detail, nil
}

func (s *service) wholesalerNames(ctx context.Context, rows []models.Order) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]struct{}{}
	for _, row := range rows {
		if _, ok := seen[row.WholesalerID]; ok {
			continue
		}
		seen[row.WholesalerID] = struct{}{}
		ids = append(ids, row.WholesalerID)
	}

	wholesalers, err := s.catalogRepo.FindWholesalersByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesalers")
	}

	names := make(map[uuid.UUID]string, len(wholesalers))
	for _, row := range wholesalers {
		names[row.ID] = row.DisplayName()
	}
	return names, nil
}

func buildSummary(order *models.Order, wholesalerName string) Summary {
	return Summary{
		ID:                order.ID,
		AtacadistaID:      order.WholesalerID,
		AtacadistaNome:    wholesalerName,
		Status:            order.Status,
		CondicaoPagamento: order.CondicaoPagamento,
		ValorTotal:        order.ValorTotal,
		TotalItens:        len(order.Items),
		CriadoEm:          order.CreatedAt,
	}
}

func findLine(cartRow *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cartRow.Items {
		if cartRow.Items[i].ProductID == productID {
			return &cartRow.Items[i]
		}
	}
	return nil
}

func nextPosition(items []models.CartItem) int {
	max := 0
	for _, item := range items {
		if item.Position > max {
			max = item.Position
		}
	}
	return max + 1
}
