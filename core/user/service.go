package user

import (
	"context"
	"errors"
	"time"

	"github.com/qori-edu/backend/core"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrCodeExists = errors.New("a user with this code already exists")
)

type (
	// GetFilter selects a single user; exactly one field should be set.
	GetFilter struct {
		ID   string
		Code string
	}

	Repository interface {
		// CheckCodeUniqueness fails with ErrCodeExists if another user
		// (outside excludedUsers) already holds the code. Codes are unique
		// process-wide, across institutions.
		CheckCodeUniqueness(ctx context.Context, code string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// FilterUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// User.Name, User.LastName or User.Code.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, code string, exclUsers ...User) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, code, exclUsers...); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(ctx, svc); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Code:          nu.Code,
		Role:          nu.Role,
		InstitutionID: nu.InstitutionID,
		Name:          nu.Name,
		LastName:      nu.LastName,
		Phone:         nu.Phone,
		Email:         nu.Email,
		Student:       nu.Student,
		Teacher:       nu.Teacher,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByCode(ctx context.Context, code string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Code: core.CleanString(code, true /* lower */)})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	if err := uu.Validate(); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return User{}, err
	}
	if uu.Name != "" {
		usr.Name = uu.Name
	}
	if uu.LastName != "" {
		usr.LastName = uu.LastName
	}
	if uu.Phone != "" {
		usr.Phone = uu.Phone
	}
	if uu.Email != "" {
		usr.Email = uu.Email
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	// profiles replace wholesale; role never changes after creation
	if uu.Student != nil && usr.IsStudent() {
		usr.Student = uu.Student
	}
	if uu.Teacher != nil && usr.IsTeacher() {
		usr.Teacher = uu.Teacher
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}
