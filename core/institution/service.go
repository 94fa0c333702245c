package institution

import (
	"context"
	"errors"
	"time"

	"github.com/qori-edu/backend/core"
)

var (
	ErrNotFound   = errors.New("institution not found")
	ErrNameExists = errors.New("an institution with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Institution) error
		CreateInstitution(ctx context.Context, inst Institution) (Institution, error)
		QueryAllInstitutions(ctx context.Context) ([]Institution, error)
		GetInstitutionByID(ctx context.Context, id string) (Institution, error)
		UpdateInstitution(ctx context.Context, inst Institution) (Institution, error)
		DeleteInstitutionByID(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ni NewInstitution) (Institution, error) {
	if err := ni.Validate(); err != nil {
		return Institution{}, err
	}
	if err := svc.repo.CheckNameUniqueness(ctx, ni.Name); err != nil {
		if err == ErrNameExists {
			return Institution{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return Institution{}, err
	}

	now := time.Now().UTC()
	inst := Institution{
		Name:      ni.Name,
		Address:   ni.Address,
		Phone:     ni.Phone,
		Email:     ni.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateInstitution(ctx, inst)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Institution, error) {
	return svc.repo.QueryAllInstitutions(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Institution, error) {
	return svc.repo.GetInstitutionByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, inst Institution) (Institution, error) {
	orig, err := svc.repo.GetInstitutionByID(ctx, inst.ID)
	if err != nil {
		return Institution{}, err
	}
	if inst.Name != "" && inst.Name != orig.Name {
		if err := svc.repo.CheckNameUniqueness(ctx, inst.Name, orig); err != nil {
			if err == ErrNameExists {
				return Institution{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
			}
			return Institution{}, err
		}
		orig.Name = inst.Name
	}
	if inst.Address != "" {
		orig.Address = inst.Address
	}
	if inst.Phone != "" {
		orig.Phone = inst.Phone
	}
	if inst.Email != "" {
		orig.Email = inst.Email
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateInstitution(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteInstitutionByID(ctx, id)
}
