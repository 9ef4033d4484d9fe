package checkout

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

	addresspkg "github.com/pinnlabs/varejo-backend/internal/address"
	cartpkg "github.com/pinnlabs/varejo-backend/internal/cart"
	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE addresses (
  id TEXT PRIMARY KEY,
  retailer_id TEXT NOT NULL,
  descricao TEXT NOT NULL,
  logradouro TEXT NOT NULL,
  numero TEXT NOT NULL,
  bairro TEXT NOT NULL,
  cidade TEXT NOT NULL,
  uf TEXT NOT NULL,
  cep TEXT NOT NULL,
  complemento TEXT,
  eh_principal INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
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

type checkoutFixture struct {
	db         *gorm.DB
	service    Service
	retailerID uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "checkout-test"})

	svc, err := NewService(
		NewRepository(db),
		cartpkg.NewRepository(db),
		catalog.NewRepository(db),
		addresspkg.NewRepository(db),
		gormTxRunner{db: db},
		logg,
		"150.00",
	)
	require.NoError(t, err)

	return &checkoutFixture{db: db, service: svc, retailerID: uuid.New()}
}

func (f *checkoutFixture) seedWholesaler(t *testing.T, name, minimum string, terms types.PaymentTerms) *models.Wholesaler {
	t.Helper()
	wholesaler := &models.Wholesaler{
		ID:                 uuid.New(),
		CNPJ:               uuid.NewString(),
		RazaoSocial:        name,
		PedidoMinimo:       decimal.RequireFromString(minimum),
		CondicoesPagamento: terms,
		Ativo:              true,
	}
	require.NoError(t, f.db.Create(wholesaler).Error)
	return wholesaler
}

func (f *checkoutFixture) seedAddress(t *testing.T, primary bool) *models.Address {
	t.Helper()
	row := &models.Address{
		ID:         uuid.New(),
		RetailerID: f.retailerID,
		Descricao:  "Loja",
		Logradouro: "Rua das Flores",
		Numero:     "120",
		Bairro:     "Centro",
		Cidade:     "Campinas",
		UF:         "SP",
		CEP:        "13010-000",
		IsPrimary:  primary,
	}
	require.NoError(t, f.db.Create(row).Error)
	return row
}

func (f *checkoutFixture) seedCart(t *testing.T, lines ...models.CartItem) *models.Cart {
	t.Helper()
	cart := &models.Cart{ID: uuid.New(), RetailerID: f.retailerID}
	require.NoError(t, f.db.Create(cart).Error)
	total := decimal.Zero
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].CartID = cart.ID
		lines[i].Position = i + 1
		total = total.Add(lines[i].Subtotal)
		require.NoError(t, f.db.Create(&lines[i]).Error)
	}
	require.NoError(t, f.db.Model(cart).Update("valor_total", total).Error)
	return cart
}

func line(wholesalerID uuid.UUID, descricao string, qty int, unitPrice string) models.CartItem {
	price := decimal.RequireFromString(unitPrice)
	return models.CartItem{
		ProductID:        uuid.New(),
		WholesalerID:     wholesalerID,
		DescricaoProduto: descricao,
		Quantidade:       qty,
		Unidade:          enums.UnitUnidade,
		PrecoUnitario:    price,
		Subtotal:         price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func (f *checkoutFixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func TestFinalizeEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.EqualValues(t, 0, f.countOrders(t))
}

func TestFinalizeWithoutAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa", "10.00", types.PaymentTerms{"A VISTA"})
	f.seedCart(t, line(wholesaler.ID, "Arroz Tipo 1 5kg", 2, "22.50"))

	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.EqualValues(t, 0, f.countOrders(t))
}

func TestFinalizeMinOrderNotReachedIsAllOrNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	wholesalerA := f.seedWholesaler(t, "Distribuidora Alfa", "100.00", types.PaymentTerms{"A VISTA"})
	wholesalerB := f.seedWholesaler(t, "Distribuidora Beta", "100.00", types.PaymentTerms{"A VISTA"})

	f.seedCart(t,
		line(wholesalerA.ID, "Arroz Tipo 1 5kg", 4, "25.00"),
		line(wholesalerA.ID, "Feijao Carioca 1kg", 5, "10.00"),
		line(wholesalerB.ID, "Oleo de Soja 900ml", 4, "10.00"),
	)

	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMinOrder, typed.Code())

	details, ok := typed.Details().(MinOrderDetails)
	require.True(t, ok)
	assert.Equal(t, wholesalerB.ID, details.AtacadistaID)
	assert.Equal(t, "Distribuidora Beta", details.AtacadistaNome)
	assert.True(t, details.ValorTotalAtual.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, details.PedidoMinimo.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, details.Faltante.Equal(decimal.RequireFromString("60.00")))

	assert.EqualValues(t, 0, f.countOrders(t), "no order may survive a failed checkout")

	var items int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Count(&items).Error)
	assert.EqualValues(t, 3, items, "cart must be intact after failure")
}

func TestFinalizeSplitsPerWholesalerAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	wholesalerA := f.seedWholesaler(t, "Distribuidora Alfa", "100.00", types.PaymentTerms{"A VISTA", "30 DIAS"})
	wholesalerB := f.seedWholesaler(t, "Distribuidora Beta", "40.00", types.PaymentTerms{"A VISTA"})

	cart := f.seedCart(t,
		line(wholesalerA.ID, "Arroz Tipo 1 5kg", 4, "25.00"),
		line(wholesalerA.ID, "Feijao Carioca 1kg", 5, "10.00"),
		line(wholesalerB.ID, "Oleo de Soja 900ml", 4, "10.00"),
	)

	summaries, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, wholesalerA.ID, summaries[0].AtacadistaID)
	assert.True(t, summaries[0].ValorTotal.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, wholesalerB.ID, summaries[1].AtacadistaID)
	assert.True(t, summaries[1].ValorTotal.Equal(decimal.RequireFromString("40.00")))

	sum := summaries[0].ValorTotal.Add(summaries[1].ValorTotal)
	assert.True(t, sum.Equal(decimal.RequireFromString("190.00")), "order totals must conserve the cart total")

	var orders []models.Order
	require.NoError(t, f.db.Order("created_at ASC").Find(&orders).Error)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, enums.OrderStatusPendente, order.Status)
		assert.Equal(t, "A VISTA", order.CondicaoPagamento)
		assert.Equal(t, "Campinas", order.EnderecoEntrega.Cidade)
	}

	var items int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&items).Error)
	assert.EqualValues(t, 0, items, "cart must end empty")

	var reloaded models.Cart
	require.NoError(t, f.db.Where("id = ?", cart.ID).First(&reloaded).Error)
	assert.True(t, reloaded.ValorTotal.IsZero())
}

type flakyOrderRepo struct {
	inner  Repository
	calls  *int
	failAt int
}

func (r flakyOrderRepo) WithTx(tx *gorm.DB) Repository {
	return flakyOrderRepo{inner: r.inner.WithTx(tx), calls: r.calls, failAt: r.failAt}
}

func (r flakyOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	*r.calls++
	if *r.calls == r.failAt {
		return nil, fmt.Errorf("insert rejected")
	}
	return r.inner.CreateOrder(ctx, order)
}

func TestFinalizeRollsBackWhenLaterOrderFails(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	wholesalerA := f.seedWholesaler(t, "Distribuidora Alfa", "10.00", types.PaymentTerms{"A VISTA"})
	wholesalerB := f.seedWholesaler(t, "Distribuidora Beta", "10.00", types.PaymentTerms{"A VISTA"})
	cart := f.seedCart(t,
		line(wholesalerA.ID, "Arroz Tipo 1 5kg", 4, "25.00"),
		line(wholesalerB.ID, "Oleo de Soja 900ml", 4, "10.00"),
	)

	calls := 0
	svc, err := NewService(
		flakyOrderRepo{inner: NewRepository(f.db), calls: &calls, failAt: 2},
		cartpkg.NewRepository(f.db),
		catalog.NewRepository(f.db),
		addresspkg.NewRepository(f.db),
		gormTxRunner{db: f.db},
		logger.New(logger.Options{ServiceName: "checkout-test"}),
		"150.00",
	)
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, 2, calls, "first order was written, second failed")

	assert.EqualValues(t, 0, f.countOrders(t), "the first order must roll back with the second")

	var orderItems int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Zero(t, orderItems)

	var items int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&items).Error)
	assert.EqualValues(t, 2, items, "cart must be intact after failure")

	var reloaded models.Cart
	require.NoError(t, f.db.Where("id = ?", cart.ID).First(&reloaded).Error)
	assert.True(t, reloaded.ValorTotal.Equal(decimal.RequireFromString("140.00")))
}

func TestFinalizeRejectsForeignAddressSelection(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa", "10.00", types.PaymentTerms{"A VISTA"})
	f.seedCart(t, line(wholesaler.ID, "Cafe Torrado 500g", 2, "14.00"))

	foreign := uuid.New()
	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{
		Selections: map[uuid.UUID]Selection{
			wholesaler.ID: {EnderecoID: &foreign},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.EqualValues(t, 0, f.countOrders(t))
}

func TestFinalizeRejectsUnofferedPaymentTerm(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa", "10.00", types.PaymentTerms{"A VISTA"})
	f.seedCart(t, line(wholesaler.ID, "Cafe Torrado 500g", 2, "14.00"))

	term := "90 DIAS"
	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{
		Selections: map[uuid.UUID]Selection{
			wholesaler.ID: {CondicaoPagamento: &term},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.EqualValues(t, 0, f.countOrders(t))
}

func TestFinalizeUsesSelectedTermAndAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)
	warehouse := f.seedAddress(t, false)
	warehouse.Descricao = "Deposito"
	warehouse.Cidade = "Jundiai"
	require.NoError(t, f.db.Save(warehouse).Error)

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa", "10.00", types.PaymentTerms{"A VISTA", "30 DIAS"})
	f.seedCart(t, line(wholesaler.ID, "Cafe Torrado 500g", 2, "14.00"))

	term := "30 dias"
	summaries, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{
		Selections: map[uuid.UUID]Selection{
			wholesaler.ID: {EnderecoID: &warehouse.ID, CondicaoPagamento: &term},
		},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	var order models.Order
	require.NoError(t, f.db.Where("id = ?", summaries[0].PedidoID).First(&order).Error)
	assert.Equal(t, "30 DIAS", order.CondicaoPagamento)
	assert.Equal(t, "Jundiai", order.EnderecoEntrega.Cidade)
}

func TestFinalizeDefaultMinimumApplies(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedAddress(t, true)

	// pedido_minimo zero falls back to the configured default of 150.00
	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa", "0.00", types.PaymentTerms{"A VISTA"})
	f.seedCart(t, line(wholesaler.ID, "Cafe Torrado 500g", 2, "14.00"))

	_, err := f.service.Finalize(context.Background(), f.retailerID, FinalizeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMinOrder, typed.Code())
}
