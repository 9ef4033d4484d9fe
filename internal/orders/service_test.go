package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cartpkg "github.com/pinnlabs/varejo-backend/internal/cart"
	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE wholesalers (
  id TEXT PRIMARY KEY,
  cnpj TEXT NOT NULL,
  razao_social TEXT NOT NULL,
  nome_fantasia TEXT,
  pedido_minimo NUMERIC NOT NULL DEFAULT 0,
  condicoes_pagamento TEXT,
  ativo INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  wholesaler_id TEXT NOT NULL,
  descricao TEXT NOT NULL,
  categoria TEXT,
  ativo INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE product_prices (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  unidade TEXT NOT NULL,
  preco NUMERIC NOT NULL,
  quantidade_unidades INTEGER NOT NULL DEFAULT 1
);`,
		`CREATE TABLE carts (
  id TEXT PRIMARY KEY,
  retailer_id TEXT NOT NULL UNIQUE,
  valor_total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  wholesaler_id TEXT NOT NULL,
  descricao_produto TEXT NOT NULL,
  quantidade INTEGER NOT NULL,
  unidade TEXT NOT NULL,
  preco_unitario NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  retailer_id TEXT NOT NULL,
  wholesaler_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pendente',
  condicao_pagamento TEXT NOT NULL,
  endereco_entrega TEXT NOT NULL,
  valor_total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  descricao_produto TEXT NOT NULL,
  unidade TEXT NOT NULL,
  quantidade INTEGER NOT NULL,
  valor_unitario NUMERIC NOT NULL,
  valor_total NUMERIC NOT NULL
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type ordersFixture struct {
	db         *gorm.DB
	service    Service
	retailerID uuid.UUID
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()

	db := setupOrdersTestDB(t)
	catalogRepo := catalog.NewRepository(db)
	pricing, err := catalog.NewPriceResolver(catalogRepo)
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(db),
		cartpkg.NewRepository(db),
		catalogRepo,
		pricing,
		gormTxRunner{db: db},
		logger.New(logger.Options{ServiceName: "orders-test"}),
	)
	require.NoError(t, err)

	return &ordersFixture{db: db, service: svc, retailerID: uuid.New()}
}

func (f *ordersFixture) seedWholesaler(t *testing.T, name string) *models.Wholesaler {
	t.Helper()
	wholesaler := &models.Wholesaler{
		ID:                 uuid.New(),
		CNPJ:               uuid.NewString(),
		RazaoSocial:        name,
		PedidoMinimo:       decimal.RequireFromString("100.00"),
		CondicoesPagamento: types.PaymentTerms{"A VISTA"},
		Ativo:              true,
	}
	require.NoError(t, f.db.Create(wholesaler).Error)
	return wholesaler
}

func (f *ordersFixture) seedProduct(t *testing.T, wholesalerID uuid.UUID, descricao string, unit enums.Unit, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		WholesalerID: wholesalerID,
		Descricao:    descricao,
		Ativo:        true,
	}
	require.NoError(t, f.db.Create(product).Error)
	require.NoError(t, f.db.Create(&models.ProductPrice{
		ID:                 uuid.New(),
		ProductID:          product.ID,
		Unidade:            unit,
		Preco:              decimal.RequireFromString(price),
		QuantidadeUnidades: 1,
	}).Error)
	return product
}

func (f *ordersFixture) seedOrder(t *testing.T, retailerID uuid.UUID, wholesalerID uuid.UUID, status enums.OrderStatus, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                uuid.New(),
		RetailerID:        retailerID,
		WholesalerID:      wholesalerID,
		Status:            status,
		CondicaoPagamento: "A VISTA",
		EnderecoEntrega:   types.DeliveryAddress{Descricao: "Loja", Cidade: "Campinas", UF: "SP"},
	}
	total := decimal.Zero
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
		total = total.Add(items[i].ValorTotal)
	}
	order.ValorTotal = total
	order.Items = items
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func orderItem(productID uuid.UUID, descricao string, qty int, unitPrice string) models.OrderItem {
	price := decimal.RequireFromString(unitPrice)
	return models.OrderItem{
		ProductID:        productID,
		DescricaoProduto: descricao,
		Unidade:          enums.UnitUnidade,
		Quantidade:       qty,
		ValorUnitario:    price,
		ValorTotal:       price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestListScopedToRetailer(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusPendente,
		orderItem(uuid.New(), "Arroz Tipo 1 5kg", 2, "22.50"))
	f.seedOrder(t, uuid.New(), wholesaler.ID, enums.OrderStatusPendente,
		orderItem(uuid.New(), "Feijao Carioca 1kg", 1, "8.90"))

	page, err := f.service.List(ctx, f.retailerID, Filters{}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Distribuidora Alfa", page.Items[0].AtacadistaNome)
	assert.Equal(t, 1, page.Items[0].TotalItens)
}

func TestListFilterByStatus(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusPendente,
		orderItem(uuid.New(), "Arroz Tipo 1 5kg", 2, "22.50"))
	f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusEntregue,
		orderItem(uuid.New(), "Feijao Carioca 1kg", 1, "8.90"))

	status := enums.OrderStatusEntregue
	page, err := f.service.List(ctx, f.retailerID, Filters{Status: &status}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, enums.OrderStatusEntregue, page.Items[0].Status)
}

func TestGetForeignOrderIsNotFound(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	order := f.seedOrder(t, uuid.New(), wholesaler.ID, enums.OrderStatusPendente,
		orderItem(uuid.New(), "Arroz Tipo 1 5kg", 2, "22.50"))

	_, err := f.service.Get(ctx, f.retailerID, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	order := f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusPendente,
		orderItem(uuid.New(), "Arroz Tipo 1 5kg", 2, "22.50"))

	detail, err := f.service.UpdateStatus(ctx, f.retailerID, order.ID, enums.OrderStatusCancelado)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelado, detail.Status)

	_, err = f.service.UpdateStatus(ctx, f.retailerID, order.ID, enums.OrderStatusEntregue)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDuplicateSkipsVanishedProducts(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	alive := f.seedProduct(t, wholesaler.ID, "Arroz Tipo 1 5kg", enums.UnitUnidade, "25.00")

	order := f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusEntregue,
		orderItem(alive.ID, "Arroz Tipo 1 5kg", 3, "22.50"),
		orderItem(uuid.New(), "Produto Descontinuado", 2, "9.00"),
	)

	result, err := f.service.Duplicate(ctx, f.retailerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItensAdicionados)
	assert.Equal(t, []string{"Produto Descontinuado"}, result.ItensIgnorados)

	var items []models.CartItem
	require.NoError(t, f.db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, alive.ID, items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantidade)
	// live price, not the historical snapshot
	assert.True(t, items[0].PrecoUnitario.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("75.00")))
}

func TestDuplicateSkipsUnitNoLongerOffered(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Acucar Cristal 1kg", enums.UnitUnidade, "4.20")

	item := orderItem(product.ID, "Acucar Cristal 1kg", 2, "45.00")
	item.Unidade = enums.UnitCaixa
	order := f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusEntregue, item)

	result, err := f.service.Duplicate(ctx, f.retailerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ItensAdicionados)
	assert.Equal(t, []string{"Acucar Cristal 1kg"}, result.ItensIgnorados)
}

func TestDuplicateMergesIntoExistingLine(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Cafe Torrado 500g", enums.UnitUnidade, "14.00")

	cart := &models.Cart{ID: uuid.New(), RetailerID: f.retailerID}
	require.NoError(t, f.db.Create(cart).Error)
	require.NoError(t, f.db.Create(&models.CartItem{
		ID:               uuid.New(),
		CartID:           cart.ID,
		ProductID:        product.ID,
		WholesalerID:     wholesaler.ID,
		DescricaoProduto: "Cafe Torrado 500g",
		Quantidade:       2,
		Unidade:          enums.UnitUnidade,
		PrecoUnitario:    decimal.RequireFromString("14.00"),
		Subtotal:         decimal.RequireFromString("28.00"),
		Position:         1,
	}).Error)

	order := f.seedOrder(t, f.retailerID, wholesaler.ID, enums.OrderStatusEntregue,
		orderItem(product.ID, "Cafe Torrado 500g", 3, "13.00"))

	result, err := f.service.Duplicate(ctx, f.retailerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItensAdicionados)

	var items []models.CartItem
	require.NoError(t, f.db.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantidade)
	assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("70.00")))

	var reloaded models.Cart
	require.NoError(t, f.db.Where("id = ?", cart.ID).First(&reloaded).Error)
	assert.True(t, reloaded.ValorTotal.Equal(decimal.RequireFromString("70.00")))
}
