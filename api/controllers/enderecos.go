package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pinnlabs/varejo-backend/api/responses"
	"github.com/pinnlabs/varejo-backend/api/validators"
	addresssvc "github.com/pinnlabs/varejo-backend/internal/address"
	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
)

type addressRequest struct {
	Descricao   string  `json:"descricao" validate:"required"`
	Logradouro  string  `json:"logradouro" validate:"required"`
	Numero      string  `json:"numero" validate:"required"`
	Bairro      string  `json:"bairro" validate:"required"`
	Cidade      string  `json:"cidade" validate:"required"`
	UF          string  `json:"uf" validate:"required,len=2"`
	CEP         string  `json:"cep" validate:"required"`
	Complemento *string `json:"complemento"`
	EhPrincipal bool    `json:"eh_principal"`
}

func (r addressRequest) toInput() addresssvc.Input {
	return addresssvc.Input{
		Descricao:   r.Descricao,
		Logradouro:  r.Logradouro,
		Numero:      r.Numero,
		Bairro:      r.Bairro,
		Cidade:      r.Cidade,
		UF:          r.UF,
		CEP:         r.CEP,
		Complemento: r.Complemento,
		EhPrincipal: r.EhPrincipal,
	}
}

type addressResponse struct {
	ID          uuid.UUID `json:"id"`
	Descricao   string    `json:"descricao"`
	Logradouro  string    `json:"logradouro"`
	Numero      string    `json:"numero"`
	Bairro      string    `json:"bairro"`
	Cidade      string    `json:"cidade"`
	UF          string    `json:"uf"`
	CEP         string    `json:"cep"`
	Complemento *string   `json:"complemento,omitempty"`
	EhPrincipal bool      `json:"eh_principal"`
	CriadoEm    time.Time `json:"criado_em"`
}

func newAddressResponse(row *models.Address) addressResponse {
	return addressResponse{
		ID:          row.ID,
		Descricao:   row.Descricao,
		Logradouro:  row.Logradouro,
		Numero:      row.Numero,
		Bairro:      row.Bairro,
		Cidade:      row.Cidade,
		UF:          row.UF,
		CEP:         row.CEP,
		Complemento: row.Complemento,
		EhPrincipal: row.IsPrimary,
		CriadoEm:    row.CreatedAt,
	}
}

// AddressList returns the retailer's addresses, primary first.
func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), retailerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]addressResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newAddressResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AddressCreate registers a new delivery address.
func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), retailerID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newAddressResponse(row))
	}
}

// AddressUpdate rewrites an existing address.
func AddressUpdate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.PathUUID(r, "enderecoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), retailerID, addressID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAddressResponse(row))
	}
}

// AddressDelete removes an address, promoting the oldest remaining one when
// the primary is deleted.
func AddressDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.PathUUID(r, "enderecoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), retailerID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// AddressSetPrimary makes the given address the retailer's primary one.
func AddressSetPrimary(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		retailerID, err := retailerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.PathUUID(r, "enderecoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.SetPrimary(r.Context(), retailerID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAddressResponse(row))
	}
}
