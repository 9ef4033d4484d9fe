package cart

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

	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCartTestDB(t *testing.T) *gorm.DB {
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
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type cartFixture struct {
	db      *gorm.DB
	service Service
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	db := setupCartTestDB(t)
	catalogRepo := catalog.NewRepository(db)
	pricing, err := catalog.NewPriceResolver(catalogRepo)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, catalogRepo, pricing, 100)
	require.NoError(t, err)

	return &cartFixture{db: db, service: svc}
}

func (f *cartFixture) seedWholesaler(t *testing.T, name string) *models.Wholesaler {
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

func (f *cartFixture) seedProduct(t *testing.T, wholesalerID uuid.UUID, descricao string, prices map[enums.Unit]string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		WholesalerID: wholesalerID,
		Descricao:    descricao,
		Ativo:        true,
	}
	require.NoError(t, f.db.Create(product).Error)
	for unit, price := range prices {
		require.NoError(t, f.db.Create(&models.ProductPrice{
			ID:                 uuid.New(),
			ProductID:          product.ID,
			Unidade:            unit,
			Preco:              decimal.RequireFromString(price),
			QuantidadeUnidades: 1,
		}).Error)
	}
	return product
}

func TestAddItemCreatesCartAndComputesTotal(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Arroz Tipo 1 5kg", map[enums.Unit]string{enums.UnitUnidade: "22.50"})

	view, err := f.service.AddItem(ctx, retailerID, AddItemInput{
		ProdutoID:    product.ID,
		AtacadistaID: wholesaler.ID,
		Quantidade:   4,
		Unidade:      enums.UnitUnidade,
	})
	require.NoError(t, err)

	require.Len(t, view.Grupos, 1)
	require.Len(t, view.Grupos[0].Itens, 1)
	assert.Equal(t, "Distribuidora Alfa", view.Grupos[0].AtacadistaNome)
	assert.True(t, view.ValorTotal.Equal(decimal.RequireFromString("90.00")), "got %s", view.ValorTotal)
	assert.True(t, view.Grupos[0].Subtotal.Equal(view.ValorTotal))
}

func TestAddItemReplacesExistingLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Acucar Cristal 1kg", map[enums.Unit]string{
		enums.UnitUnidade: "4.20",
		enums.UnitCaixa:   "48.00",
	})

	_, err := f.service.AddItem(ctx, retailerID, AddItemInput{
		ProdutoID: product.ID, Quantidade: 3, Unidade: enums.UnitUnidade,
	})
	require.NoError(t, err)

	view, err := f.service.AddItem(ctx, retailerID, AddItemInput{
		ProdutoID: product.ID, Quantidade: 2, Unidade: enums.UnitCaixa,
	})
	require.NoError(t, err)

	require.Len(t, view.Grupos, 1)
	require.Len(t, view.Grupos[0].Itens, 1)
	item := view.Grupos[0].Itens[0]
	assert.Equal(t, 2, item.Quantidade)
	assert.Equal(t, enums.UnitCaixa, item.Unidade)
	assert.True(t, view.ValorTotal.Equal(decimal.RequireFromString("96.00")), "got %s", view.ValorTotal)
}

func TestAddItemRejectsWrongWholesaler(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	wholesalerA := f.seedWholesaler(t, "Distribuidora Alfa")
	wholesalerB := f.seedWholesaler(t, "Distribuidora Beta")
	product := f.seedProduct(t, wholesalerA.ID, "Cafe Torrado 500g", map[enums.Unit]string{enums.UnitUnidade: "14.00"})

	_, err := f.service.AddItem(ctx, uuid.New(), AddItemInput{
		ProdutoID:    product.ID,
		AtacadistaID: wholesalerB.ID,
		Quantidade:   1,
		Unidade:      enums.UnitUnidade,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddItemQuantityCap(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Leite UHT 1L", map[enums.Unit]string{enums.UnitUnidade: "5.00"})

	_, err := f.service.AddItem(ctx, uuid.New(), AddItemInput{
		ProdutoID: product.ID, Quantidade: 101, Unidade: enums.UnitUnidade,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateItemMissingLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Farinha de Trigo 1kg", map[enums.Unit]string{enums.UnitUnidade: "6.00"})

	_, err := f.service.UpdateItem(ctx, uuid.New(), product.ID, UpdateItemInput{
		Quantidade: 2, Unidade: enums.UnitUnidade,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveItemKeepsCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	productA := f.seedProduct(t, wholesaler.ID, "Macarrao Espaguete 500g", map[enums.Unit]string{enums.UnitUnidade: "3.50"})
	productB := f.seedProduct(t, wholesaler.ID, "Molho de Tomate 340g", map[enums.Unit]string{enums.UnitUnidade: "2.80"})

	_, err := f.service.AddItem(ctx, retailerID, AddItemInput{ProdutoID: productA.ID, Quantidade: 2, Unidade: enums.UnitUnidade})
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, retailerID, AddItemInput{ProdutoID: productB.ID, Quantidade: 5, Unidade: enums.UnitUnidade})
	require.NoError(t, err)

	view, err := f.service.RemoveItem(ctx, retailerID, productA.ID)
	require.NoError(t, err)
	require.Len(t, view.Grupos, 1)
	require.Len(t, view.Grupos[0].Itens, 1)
	assert.True(t, view.ValorTotal.Equal(decimal.RequireFromString("14.00")), "got %s", view.ValorTotal)

	view, err = f.service.RemoveItem(ctx, retailerID, productB.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Grupos)
	assert.True(t, view.ValorTotal.IsZero())

	var count int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("retailer_id = ?", retailerID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "empty cart must persist")
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Macarrao Espaguete 500g", map[enums.Unit]string{enums.UnitUnidade: "3.50"})

	_, err := f.service.AddItem(ctx, retailerID, AddItemInput{ProdutoID: product.ID, Quantidade: 2, Unidade: enums.UnitUnidade})
	require.NoError(t, err)

	view, err := f.service.UpdateItem(ctx, retailerID, product.ID, UpdateItemInput{Quantidade: 0, Unidade: enums.UnitUnidade})
	require.NoError(t, err)
	assert.Empty(t, view.Grupos)
	assert.True(t, view.ValorTotal.IsZero())
}

func TestClearWipesEveryLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	productA := f.seedProduct(t, wholesaler.ID, "Macarrao Espaguete 500g", map[enums.Unit]string{enums.UnitUnidade: "3.50"})
	productB := f.seedProduct(t, wholesaler.ID, "Molho de Tomate 340g", map[enums.Unit]string{enums.UnitUnidade: "2.80"})

	_, err := f.service.AddItem(ctx, retailerID, AddItemInput{ProdutoID: productA.ID, Quantidade: 2, Unidade: enums.UnitUnidade})
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, retailerID, AddItemInput{ProdutoID: productB.ID, Quantidade: 5, Unidade: enums.UnitUnidade})
	require.NoError(t, err)

	view, err := f.service.Clear(ctx, retailerID)
	require.NoError(t, err)
	assert.Empty(t, view.Grupos)
	assert.True(t, view.ValorTotal.IsZero())

	var items int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Zero(t, items)

	var carts int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("retailer_id = ?", retailerID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts, "empty cart must persist")
}

func TestClearWithoutCartIsNoop(t *testing.T) {
	f := newCartFixture(t)

	view, err := f.service.Clear(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, view.Grupos)
	assert.True(t, view.ValorTotal.IsZero())
}

func TestGetCartWithoutCartReturnsEmptyView(t *testing.T) {
	f := newCartFixture(t)

	view, err := f.service.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, view.Grupos)
	assert.True(t, view.ValorTotal.IsZero())
}

func TestGetCartItemCarriesPriceTable(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesaler := f.seedWholesaler(t, "Distribuidora Alfa")
	product := f.seedProduct(t, wholesaler.ID, "Acucar Cristal 1kg", map[enums.Unit]string{
		enums.UnitUnidade: "4.20",
		enums.UnitCaixa:   "48.00",
	})

	_, err := f.service.AddItem(ctx, retailerID, AddItemInput{
		ProdutoID: product.ID, Quantidade: 2, Unidade: enums.UnitUnidade,
	})
	require.NoError(t, err)

	view, err := f.service.GetCart(ctx, retailerID)
	require.NoError(t, err)
	require.Len(t, view.Grupos, 1)
	require.Len(t, view.Grupos[0].Itens, 1)

	item := view.Grupos[0].Itens[0]
	require.Len(t, item.Precos, 2)
	byUnit := map[enums.Unit]decimal.Decimal{}
	for _, price := range item.Precos {
		byUnit[price.Unidade] = price.Preco
	}
	assert.True(t, byUnit[enums.UnitUnidade].Equal(decimal.RequireFromString("4.20")))
	assert.True(t, byUnit[enums.UnitCaixa].Equal(decimal.RequireFromString("48.00")))
}

func TestGroupOrderFollowsFirstOccurrence(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	retailerID := uuid.New()

	wholesalerA := f.seedWholesaler(t, "Distribuidora Alfa")
	wholesalerB := f.seedWholesaler(t, "Distribuidora Beta")
	productA := f.seedProduct(t, wholesalerA.ID, "Sabao em Po 1kg", map[enums.Unit]string{enums.UnitUnidade: "12.00"})
	productB := f.seedProduct(t, wholesalerB.ID, "Detergente 500ml", map[enums.Unit]string{enums.UnitUnidade: "2.20"})
	productA2 := f.seedProduct(t, wholesalerA.ID, "Amaciante 2L", map[enums.Unit]string{enums.UnitUnidade: "9.90"})

	for _, add := range []AddItemInput{
		{ProdutoID: productB.ID, Quantidade: 1, Unidade: enums.UnitUnidade},
		{ProdutoID: productA.ID, Quantidade: 1, Unidade: enums.UnitUnidade},
		{ProdutoID: productA2.ID, Quantidade: 1, Unidade: enums.UnitUnidade},
	} {
		_, err := f.service.AddItem(ctx, retailerID, add)
		require.NoError(t, err)
	}

	view, err := f.service.GetCart(ctx, retailerID)
	require.NoError(t, err)
	require.Len(t, view.Grupos, 2)
	assert.Equal(t, wholesalerB.ID, view.Grupos[0].AtacadistaID)
	assert.Equal(t, wholesalerA.ID, view.Grupos[1].AtacadistaID)
	require.Len(t, view.Grupos[1].Itens, 2)
}
