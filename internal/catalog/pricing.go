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
)

// PriceQuote is the live price of a product for one unit of measure.
type PriceQuote struct {
	Product        *models.Product
	Unidade        enums.Unit
	PrecoUnitario  decimal.Decimal
	UnidadesPacote int
}

// PriceResolver resolves the current price table entry for a product/unit
// pair. Quotes always reflect the current table; cart lines keep the price
// they were quoted at until the line is touched again.
type PriceResolver interface {
	Resolve(ctx context.Context, productID uuid.UUID, unidade enums.Unit) (*PriceQuote, error)
}

type priceResolver struct {
	repo Repository
}

// NewPriceResolver builds a resolver backed by the catalog repository.
func NewPriceResolver(repo Repository) (PriceResolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &priceResolver{repo: repo}, nil
}

func (p *priceResolver) Resolve(ctx context.Context, productID uuid.UUID, unidade enums.Unit) (*PriceQuote, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id do produto e obrigatorio")
	}
	if !unidade.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unidade de medida invalida")
	}

	product, err := p.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "produto nao encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Ativo {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "produto indisponivel")
	}

	for _, price := range product.Prices {
		if price.Unidade == unidade {
			return &PriceQuote{
				Product:        product,
				Unidade:        unidade,
				PrecoUnitario:  price.Preco,
				UnidadesPacote: price.QuantidadeUnidades,
			}, nil
		}
	}

	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unidade de medida nao disponivel para este produto").
		WithDetails(map[string]any{
			"produto_id": productID,
			"unidade":    unidade,
		})
}
