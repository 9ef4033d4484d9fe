package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/internal/address"
	"github.com/pinnlabs/varejo-backend/internal/cart"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
)

// validate runs the whole pre-split check over the retailer's cart and
// returns the per-wholesaler groups in cart insertion order. Any failure
// means zero orders are created.
func (s *service) validate(ctx context.Context, retailerID uuid.UUID, cartRow *models.Cart, input FinalizeInput) ([]validatedGroup, error) {
	if cartRow == nil || len(cartRow.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carrinho vazio")
	}

	addresses, err := s.addressRepo.ListByRetailer(ctx, retailerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	if len(addresses) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nenhum endereco de entrega cadastrado")
	}
	addressByID := make(map[uuid.UUID]*models.Address, len(addresses))
	for i := range addresses {
		addressByID[addresses[i].ID] = &addresses[i]
	}
	primary := address.ResolvePrimary(addresses)

	grouped := cart.GroupItems(cartRow.Items)
	wholesalerIDs := make([]uuid.UUID, 0, len(grouped))
	for _, group := range grouped {
		wholesalerIDs = append(wholesalerIDs, group[0].WholesalerID)
	}
	wholesalers, err := s.catalogRepo.FindWholesalersByIDs(ctx, wholesalerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesalers")
	}
	wholesalerByID := make(map[uuid.UUID]models.Wholesaler, len(wholesalers))
	for _, row := range wholesalers {
		wholesalerByID[row.ID] = row
	}

	validated := make([]validatedGroup, 0, len(grouped))
	for _, items := range grouped {
		wholesalerID := items[0].WholesalerID
		wholesaler, ok := wholesalerByID[wholesalerID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "atacadista nao encontrado").
				WithDetails(map[string]any{"atacadista_id": wholesalerID})
		}

		selection := input.Selections[wholesalerID]

		deliveryAddress := primary
		if selection.EnderecoID != nil {
			chosen, ok := addressByID[*selection.EnderecoID]
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "endereco nao pertence ao varejista").
					WithDetails(map[string]any{
						"atacadista_id": wholesalerID,
						"endereco_id":   *selection.EnderecoID,
					})
			}
			deliveryAddress = chosen
		}

		terms := wholesaler.CondicoesPagamento.Normalize()
		term := terms.Default()
		if selection.CondicaoPagamento != nil {
			if !terms.Offers(*selection.CondicaoPagamento) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "condicao de pagamento nao oferecida pelo atacadista").
					WithDetails(map[string]any{
						"atacadista_id":      wholesalerID,
						"condicao_pagamento": *selection.CondicaoPagamento,
						"oferecidas":         terms,
					})
			}
			term = normalizeTerm(*selection.CondicaoPagamento)
		}

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Subtotal)
		}

		minimum := wholesaler.PedidoMinimo
		if minimum.IsZero() {
			minimum = s.defaultMinOrder
		}
		if subtotal.LessThan(minimum) {
			return nil, pkgerrors.New(pkgerrors.CodeMinOrder, "pedido minimo do atacadista nao atingido").
				WithDetails(MinOrderDetails{
					AtacadistaID:    wholesaler.ID,
					AtacadistaNome:  wholesaler.DisplayName(),
					ValorTotalAtual: subtotal,
					PedidoMinimo:    minimum,
					Faltante:        minimum.Sub(subtotal),
				})
		}

		validated = append(validated, validatedGroup{
			Wholesaler: wholesaler,
			Items:      items,
			Subtotal:   subtotal,
			Address:    deliveryAddress.Snapshot(),
			Term:       term,
		})
	}

	return validated, nil
}
