package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/internal/catalog"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// ItemView is one cart line as presented to the retailer. Precos carries the
// product's current price table so the client can switch units without another
// catalog round trip.
type ItemView struct {
	ProdutoID     uuid.UUID                  `json:"produto_id"`
	Descricao     string                     `json:"descricao"`
	Quantidade    int                        `json:"quantidade"`
	Unidade       enums.Unit                 `json:"unidade"`
	PrecoUnitario decimal.Decimal            `json:"preco_unitario"`
	Subtotal      decimal.Decimal            `json:"subtotal"`
	Precos        []catalog.ProductPriceView `json:"precos"`
}

// GroupView is the per-wholesaler slice of the cart. Group order follows the
// first occurrence of each wholesaler among the cart lines.
type GroupView struct {
	AtacadistaID       uuid.UUID          `json:"atacadista_id"`
	AtacadistaNome     string             `json:"atacadista_nome"`
	PedidoMinimo       decimal.Decimal    `json:"pedido_minimo"`
	CondicoesPagamento types.PaymentTerms `json:"condicoes_pagamento"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	Itens              []ItemView         `json:"itens"`
}

// View is the full cart returned by every cart operation.
type View struct {
	Grupos       []GroupView     `json:"grupos"`
	ValorTotal   decimal.Decimal `json:"valor_total"`
	TotalItens   int             `json:"total_itens"`
	AtualizadoEm time.Time       `json:"atualizado_em"`
}

// EmptyView is what a retailer without a cart sees.
func EmptyView() *View {
	return &View{
		Grupos:     []GroupView{},
		ValorTotal: decimal.Zero,
	}
}

// GroupItems splits cart lines into per-wholesaler groups preserving the
// insertion order of each wholesaler's first line.
func GroupItems(items []models.CartItem) [][]models.CartItem {
	var order []uuid.UUID
	byWholesaler := map[uuid.UUID][]models.CartItem{}
	for _, item := range items {
		if _, ok := byWholesaler[item.WholesalerID]; !ok {
			order = append(order, item.WholesalerID)
		}
		byWholesaler[item.WholesalerID] = append(byWholesaler[item.WholesalerID], item)
	}

	groups := make([][]models.CartItem, 0, len(order))
	for _, id := range order {
		groups = append(groups, byWholesaler[id])
	}
	return groups
}

func buildView(cart *models.Cart, wholesalers map[uuid.UUID]models.Wholesaler, products map[uuid.UUID]models.Product) *View {
	view := &View{
		Grupos:       []GroupView{},
		ValorTotal:   cart.ValorTotal,
		AtualizadoEm: cart.UpdatedAt,
	}

	for _, group := range GroupItems(cart.Items) {
		wholesalerID := group[0].WholesalerID
		groupView := GroupView{
			AtacadistaID: wholesalerID,
			Subtotal:     decimal.Zero,
			Itens:        make([]ItemView, 0, len(group)),
		}
		if wholesaler, ok := wholesalers[wholesalerID]; ok {
			groupView.AtacadistaNome = wholesaler.DisplayName()
			groupView.PedidoMinimo = wholesaler.PedidoMinimo
			groupView.CondicoesPagamento = wholesaler.CondicoesPagamento.Normalize()
		}
		for _, item := range group {
			groupView.Subtotal = groupView.Subtotal.Add(item.Subtotal)
			itemView := ItemView{
				ProdutoID:     item.ProductID,
				Descricao:     item.DescricaoProduto,
				Quantidade:    item.Quantidade,
				Unidade:       item.Unidade,
				PrecoUnitario: item.PrecoUnitario,
				Subtotal:      item.Subtotal,
				Precos:        []catalog.ProductPriceView{},
			}
			if product, ok := products[item.ProductID]; ok {
				itemView.Precos = catalog.PriceTable(product.Prices)
			}
			groupView.Itens = append(groupView.Itens, itemView)
			view.TotalItens++
		}
		view.Grupos = append(view.Grupos, groupView)
	}

	return view
}
