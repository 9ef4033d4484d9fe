package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pinnlabs/varejo-backend/api/responses"
	"github.com/pinnlabs/varejo-backend/api/validators"
	cartsvc "github.com/pinnlabs/varejo-backend/internal/cart"
	checkoutsvc "github.com/pinnlabs/varejo-backend/internal/checkout"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
)

// CartFetch returns the retailer's cart grouped per wholesaler.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCart(r.Context(), retailerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	ProdutoID    uuid.UUID  `json:"produto_id" validate:"required"`
	AtacadistaID *uuid.UUID `json:"atacadista_id"`
	Quantidade   int        `json:"quantidade" validate:"required,min=1"`
	Unidade      string     `json:"unidade" validate:"required"`
}

// Quantity zero is accepted on update and removes the line.
type updateCartItemRequest struct {
	Quantidade int    `json:"quantidade" validate:"gte=0"`
	Unidade    string `json:"unidade" validate:"required"`
}

// CartAddItem adds a product to the cart at its live price.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := enums.ParseUnit(body.Unidade)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unidade invalida"))
			return
		}

		input := cartsvc.AddItemInput{
			ProdutoID:  body.ProdutoID,
			Quantidade: body.Quantidade,
			Unidade:    unit,
		}
		if body.AtacadistaID != nil {
			input.AtacadistaID = *body.AtacadistaID
		}

		view, err := svc.AddItem(r.Context(), retailerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartUpdateItem changes quantity/unit of an existing line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "produtoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := enums.ParseUnit(body.Unidade)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unidade invalida"))
			return
		}

		view, err := svc.UpdateItem(r.Context(), retailerID, productID, cartsvc.UpdateItemInput{
			Quantidade: body.Quantidade,
			Unidade:    unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "produtoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), retailerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartClear wipes every line of the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Clear(r.Context(), retailerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type checkoutSelectionPayload struct {
	EnderecoID        *uuid.UUID `json:"endereco_id"`
	CondicaoPagamento *string    `json:"condicao_pagamento"`
}

type checkoutRequest struct {
	Selecoes map[string]checkoutSelectionPayload `json:"selecoes"`
}

// CartCheckout splits the cart into one order per wholesaler. Either every
// group becomes an order or nothing is persisted.
func CartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.FinalizeInput{Selections: map[uuid.UUID]checkoutsvc.Selection{}}
		for key, sel := range body.Selecoes {
			wholesalerID, err := uuid.Parse(key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "id de atacadista invalido nas selecoes").
					WithDetails(map[string]any{"atacadista_id": key}))
				return
			}
			input.Selections[wholesalerID] = checkoutsvc.Selection{
				EnderecoID:        sel.EnderecoID,
				CondicaoPagamento: sel.CondicaoPagamento,
			}
		}

		summaries, err := svc.Finalize(r.Context(), retailerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"pedidos": summaries})
	}
}
