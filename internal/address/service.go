package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinnlabs/varejo-backend/pkg/db/models"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the retailer address book operations.
type Service interface {
	List(ctx context.Context, retailerID uuid.UUID) ([]models.Address, error)
	Create(ctx context.Context, retailerID uuid.UUID, input Input) (*models.Address, error)
	Update(ctx context.Context, retailerID, addressID uuid.UUID, input Input) (*models.Address, error)
	Delete(ctx context.Context, retailerID, addressID uuid.UUID) error
	SetPrimary(ctx context.Context, retailerID, addressID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the address service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Input is the address payload accepted on create and update.
type Input struct {
	Descricao   string
	Logradouro  string
	Numero      string
	Bairro      string
	Cidade      string
	UF          string
	CEP         string
	Complemento *string
	EhPrincipal bool
}

func (s *service) List(ctx context.Context, retailerID uuid.UUID) ([]models.Address, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}
	rows, err := s.repo.ListByRetailer(ctx, retailerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

// Create inserts an address. The retailer's first address is always primary;
// asking for primary on a later address demotes the current one atomically.
func (s *service) Create(ctx context.Context, retailerID uuid.UUID, input Input) (*models.Address, error) {
	if retailerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer id is required")
	}

	var created *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		count, err := txRepo.CountByRetailer(ctx, retailerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
		}

		primary := input.EhPrincipal || count == 0
		if primary && count > 0 {
			if err := txRepo.ClearPrimary(ctx, retailerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear primary address")
			}
		}

		row := &models.Address{
			ID:          uuid.New(),
			RetailerID:  retailerID,
			Descricao:   input.Descricao,
			Logradouro:  input.Logradouro,
			Numero:      input.Numero,
			Bairro:      input.Bairro,
			Cidade:      input.Cidade,
			UF:          input.UF,
			CEP:         input.CEP,
			Complemento: input.Complemento,
			IsPrimary:   primary,
		}
		created, err = txRepo.Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, retailerID, addressID uuid.UUID, input Input) (*models.Address, error) {
	if retailerID == uuid.Nil || addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer and address ids are required")
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := txRepo.FindByIDAndRetailer(ctx, addressID, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "endereco nao encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if input.EhPrincipal && !row.IsPrimary {
			if err := txRepo.ClearPrimary(ctx, retailerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear primary address")
			}
			row.IsPrimary = true
		}

		row.Descricao = input.Descricao
		row.Logradouro = input.Logradouro
		row.Numero = input.Numero
		row.Bairro = input.Bairro
		row.Cidade = input.Cidade
		row.UF = input.UF
		row.CEP = input.CEP
		row.Complemento = input.Complemento

		updated, err = txRepo.Update(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an address. When the primary is deleted the oldest
// remaining address is promoted, keeping the primary flag exclusive.
func (s *service) Delete(ctx context.Context, retailerID, addressID uuid.UUID) error {
	if retailerID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "retailer and address ids are required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := txRepo.FindByIDAndRetailer(ctx, addressID, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "endereco nao encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if err := txRepo.Delete(ctx, addressID, retailerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
		}

		if !row.IsPrimary {
			return nil
		}

		remaining, err := txRepo.ListByRetailer(ctx, retailerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
		}
		if len(remaining) == 0 {
			return nil
		}
		if err := txRepo.SetPrimary(ctx, remaining[0].ID, retailerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote primary address")
		}
		return nil
	})
}

// SetPrimary flips the primary flag to the given address, demoting the
// previous primary in the same transaction.
func (s *service) SetPrimary(ctx context.Context, retailerID, addressID uuid.UUID) (*models.Address, error) {
	if retailerID == uuid.Nil || addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retailer and address ids are required")
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := txRepo.FindByIDAndRetailer(ctx, addressID, retailerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "endereco nao encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if err := txRepo.ClearPrimary(ctx, retailerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear primary address")
		}
		if err := txRepo.SetPrimary(ctx, addressID, retailerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set primary address")
		}

		row.IsPrimary = true
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ResolvePrimary picks the delivery fallback: the flagged primary, or the
// oldest address when none is flagged.
func ResolvePrimary(rows []models.Address) *models.Address {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].IsPrimary {
			return &rows[i]
		}
	}
	return &rows[0]
}
