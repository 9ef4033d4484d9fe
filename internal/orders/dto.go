package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinnlabs/varejo-backend/pkg/enums"
	"github.com/pinnlabs/varejo-backend/pkg/types"
)

// Summary is the order row shown in the retailer's order list.
type Summary struct {
	ID                uuid.UUID         `json:"id"`
	AtacadistaID      uuid.UUID         `json:"atacadista_id"`
	AtacadistaNome    string            `json:"atacadista_nome"`
	Status            enums.OrderStatus `json:"status"`
	CondicaoPagamento string            `json:"condicao_pagamento"`
	ValorTotal        decimal.Decimal   `json:"valor_total"`
	TotalItens        int               `json:"total_itens"`
	CriadoEm          time.Time         `json:"criado_em"`
}

// ItemView is one snapshotted order line.
type ItemView struct {
	ProdutoID     uuid.UUID       `json:"produto_id"`
	Descricao     string          `json:"descricao"`
	Unidade       enums.Unit      `json:"unidade"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
}

// Detail is the full order document returned by the detail endpoint.
type Detail struct {
	Summary
	EnderecoEntrega types.DeliveryAddress `json:"endereco_entrega"`
	Itens           []ItemView            `json:"itens"`
}

// DuplicateResult reports what happened when re-adding a past order's items
// to the current cart.
type DuplicateResult struct {
	ItensAdicionados int      `json:"itens_adicionados"`
	ItensIgnorados   []string `json:"itens_ignorados"`
}
