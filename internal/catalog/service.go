package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Service exposes the catalog read operations consumed by the portal.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (pagination.Page[ProductView], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ListWholesalers(ctx context.Context, params pagination.Params) (pagination.Page[WholesalerView], error)
	GetWholesaler(ctx context.Context, id uuid.UUID) (*WholesalerView, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ProductPriceView is one row of the per-unit price table.
type ProductPriceView struct {
	Unidade            enums.Unit      `json:"unidade"`
	Preco              decimal.Decimal `json:"preco"`
	QuantidadeUnidades int             `json:"quantidade_unidades"`
}

// ProductView is the catalog product as presented to retailers.
type ProductView struct {
	ID           uuid.UUID          `json:"id"`
	AtacadistaID uuid.UUID          `json:"atacadista_id"`
	Descricao    string             `json:"descricao"`
	Categoria    *string            `json:"categoria,omitempty"`
	Precos       []ProductPriceView `json:"precos"`
}

// WholesalerView is the wholesaler profile shown in the catalog, with the
// cash term always present in the offered payment terms.
type WholesalerView struct {
	ID                 uuid.UUID          `json:"id"`
	RazaoSocial        string             `json:"razao_social"`
	NomeFantasia       *string            `json:"nome_fantasia,omitempty"`
	PedidoMinimo       decimal.Decimal    `json:"pedido_minimo"`
	CondicoesPagamento types.PaymentTerms `json:"condicoes_pagamento"`
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (pagination.Page[ProductView], error) {
	rows, total, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return pagination.Page[ProductView]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, buildProductView(&row))
	}
	return pagination.NewPage(params, views, total), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do produto e obrigatorio")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "produto nao encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := buildProductView(product)
	return &view, nil
}

func (s *service) ListWholesalers(ctx context.Context, params pagination.Params) (pagination.Page[WholesalerView], error) {
	rows, total, err := s.repo.ListWholesalers(ctx, params)
	if err != nil {
		return pagination.Page[WholesalerView]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wholesalers")
	}

	views := make([]WholesalerView, 0, len(rows))
	for _, row := range rows {
		views = append(views, buildWholesalerView(&row))
	}
	return pagination.NewPage(params, views, total), nil
}

func (s *service) GetWholesaler(ctx context.Context, id uuid.UUID) (*WholesalerView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do atacadista e obrigatorio")
	}
	wholesaler, err := s.repo.FindWholesalerByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "atacadista nao encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesaler")
	}
	view := buildWholesalerView(wholesaler)
	return &view, nil
}

func buildProductView(product *models.Product) ProductView {
	return ProductView{
		ID:           product.ID,
		AtacadistaID: product.WholesalerID,
		Descricao:    product.Descricao,
		Categoria:    product.Categoria,
		Precos:       PriceTable(product.Prices),
	}
}

// PriceTable converts stored price rows into the public per-unit table.
func PriceTable(prices []models.ProductPrice) []ProductPriceView {
	out := make([]ProductPriceView, 0, len(prices))
	for _, price := range prices {
		out = append(out, ProductPriceView{
			Unidade:            price.Unidade,
			Preco:              price.Preco,
			QuantidadeUnidades: price.QuantidadeUnidades,
		})
	}
	return out
}

func buildWholesalerView(wholesaler *models.Wholesaler) WholesalerView {
	return WholesalerView{
		ID:                 wholesaler.ID,
		RazaoSocial:        wholesaler.RazaoSocial,
		NomeFantasia:       wholesaler.NomeFantasia,
		PedidoMinimo:       wholesaler.PedidoMinimo,
		CondicoesPagamento: wholesaler.CondicoesPagamento.Normalize(),
	}
}
