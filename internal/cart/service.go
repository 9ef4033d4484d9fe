package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the retailer cart operations.
type Service interface {
	AddItem(ctx context.Context, retailerID uuid.UUID, input AddItemInput) (*View, error)
	UpdateItem(ctx context.Context, retailerID, productID uuid.UUID, input UpdateItemInput) (*View, error)
	RemoveItem(ctx context.Context, retailerID, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, retailerID uuid.UUID) (*View, error)
	GetCart(ctx context.Context, retailerID uuid.UUID) (*View, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	catalogRepo catalog.Repository
	pricing     catalog.PriceResolver
	maxQuantity int
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, catalogRepo catalog.Repository, pricing catalog.PriceResolver, maxQuantity int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if maxQuantity <= 0 {
		return nil, fmt.Errorf("max quantity must be positive")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		catalogRepo: catalogRepo,
		pricing:     pricing,
		maxQuantity: maxQuantity,
	}, nil
}

// AddItemInput captures the payload to add a product to the cart.
type AddItemInput struct {
	ProdutoID    uuid.UUID
	AtacadistaID uuid.UUID
	Quantidade   int
	Unidade      enums.Unit
}

// UpdateItemInput captures the payload to change an existing cart line.
type UpdateItemInput struct {
	Quantidade int
	Unidade    enums.Unit
}

// AddItem resolves the live price and upserts the cart line. A product
// already in the cart has its quantity, unit and price replaced, never
// summed.
func (s *service) AddItem(ctx context.Context, retailerID uuid.UUID, input AddItemInput) (*View, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}
	if input.ProdutoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do produto e obrigatorio")
	}
	if err := s.validateQuantity(input.Quantidade); err != nil {
		return nil, err
	}

	quote, err := s.pricing.Resolve(ctx, input.ProdutoID, input.Unidade)
	if err != nil {
		return nil, err
	}
	if input.AtacadistaID != uuid.Nil && quote.Product.WholesalerID != input.AtacadistaID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "produto nao pertence ao atacadista informado")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := s.loadOrCreateCart(ctx, txRepo, retailerID)
		if err != nil {
			return err
		}

		item := findItem(cart, input.ProdutoID)
		if item == nil {
			cart.Items = append(cart.Items, models.CartItem{
				ID:           uuid.New(),
				CartID:       cart.ID,
				ProductID:    quote.Product.ID,
				WholesalerID: quote.Product.WholesalerID,
				Position:     nextPosition(cart.Items),
			})
			item = &cart.Items[len(cart.Items)-1]
		}

		applyQuote(item, quote, input.Quantidade)
		if err := txRepo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
		}
		return s.persistTotal(ctx, txRepo, cart)
	}); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, retailerID)
}

// UpdateItem changes quantity/unit of an existing line, re-resolving price.
// Quantity zero removes the line.
func (s *service) UpdateItem(ctx context.Context, retailerID, productID uuid.UUID, input UpdateItemInput) (*View, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do produto e obrigatorio")
	}
	if input.Quantidade == 0 {
		return s.RemoveItem(ctx, retailerID, productID)
	}
	if err := s.validateQuantity(input.Quantidade); err != nil {
		return nil, err
	}

	quote, err := s.pricing.Resolve(ctx, productID, input.Unidade)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindByRetailer(ctx, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item nao encontrado no carrinho")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item := findItem(cart, productID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item nao encontrado no carrinho")
		}

		applyQuote(item, quote, input.Quantidade)
		if err := txRepo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
		}
		return s.persistTotal(ctx, txRepo, cart)
	}); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, retailerID)
}

// RemoveItem deletes one line. An empty cart persists rather than being
// dropped.
func (s *service) RemoveItem(ctx context.Context, retailerID, productID uuid.UUID) (*View, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do produto e obrigatorio")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindByRetailer(ctx, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item nao encontrado no carrinho")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if findItem(cart, productID) == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item nao encontrado no carrinho")
		}

		if err := txRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		remaining := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				remaining = append(remaining, item)
			}
		}
		cart.Items = remaining
		return s.persistTotal(ctx, txRepo, cart)
	}); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, retailerID)
}

// Clear wipes every line of the cart. A retailer without a cart gets the
// empty view back, same as clearing an already empty cart.
func (s *service) Clear(ctx context.Context, retailerID uuid.UUID) (*View, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindByRetailer(ctx, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if err := txRepo.DeleteAllItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		cart.Items = nil
		return s.persistTotal(ctx, txRepo, cart)
	}); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, retailerID)
}

// GetCart returns the cart view; retailers without a cart get an empty view.
func (s *service) GetCart(ctx context.Context, retailerID uuid.UUID) (*View, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}

	cart, err := s.repo.FindByRetailer(ctx, retailerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyView(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	wholesalers, err := s.loadWholesalers(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	return buildView(cart, wholesalers, products), nil
}

func (s *service) loadOrCreateCart(ctx context.Context, repo Repository, retailerID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByRetailer(ctx, retailerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart = &models.Cart{
		ID:         uuid.New(),
		RetailerID: retailerID,
		ValorTotal: decimal.Zero,
	}
	if _, err := repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

func (s *service) loadWholesalers(ctx context.Context, items []models.CartItem) (map[uuid.UUID]models.Wholesaler, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := map[uuid.UUID]struct{}{}
	for _, item := range items {
		if _, ok := seen[item.WholesalerID]; ok {
			continue
		}
		seen[item.WholesalerID] = struct{}{}
		ids = append(ids, item.WholesalerID)
	}

	rows, err := s.catalogRepo.FindWholesalersByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesalers")
	}

	out := make(map[uuid.UUID]models.Wholesaler, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (s *service) loadProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	rows, err := s.catalogRepo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	out := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (s *service) persistTotal(ctx context.Context, repo Repository, cart *models.Cart) error {
	cart.RecomputeTotal()
	if err := repo.UpdateTotal(ctx, cart.ID, cart.ValorTotal); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
	}
	return nil
}

func (s *service) validateQuantity(quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantidade deve ser maior que zero")
	}
	if quantity > s.maxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantidade acima do limite por item").
			WithDetails(map[string]any{"limite": s.maxQuantity})
	}
	return nil
}

func findItem(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
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

func applyQuote(item *models.CartItem, quote *catalog.PriceQuote, quantity int) {
	item.DescricaoProduto = quote.Product.Descricao
	item.Quantidade = quantity
	item.Unidade = quote.Unidade
	item.PrecoUnitario = quote.PrecoUnitario
	item.Subtotal = quote.PrecoUnitario.Mul(decimal.NewFromInt(int64(quantity)))
}
