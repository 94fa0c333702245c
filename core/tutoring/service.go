package tutoring

import (
	"context"
	"errors"
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/user"
)

var (
	ErrNotFound = errors.New("tutoring assignment not found")
	ErrExists   = errors.New("this teacher is already assigned as tutor of this group")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// ExistsFor reports whether the exact (teacher, institution, group)
		// tuple is already registered.
		ExistsFor(ctx context.Context, teacherID, institutionID string, group Group) (bool, error)
		FilterByTeacher(ctx context.Context, institutionID, teacherID string) ([]Assignment, error)
		// FilterByGroups returns every assignment of the institution whose
		// group matches any of the given groups.
		FilterByGroups(ctx context.Context, institutionID string, groups []Group) ([]Assignment, error)
		QueryAssignments(ctx context.Context, institutionID string) ([]Assignment, error)
		DeleteAssignmentByID(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}

	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: na.TeacherID})
	if err != nil {
		return Assignment{}, err
	}
	if !usr.IsTeacher() {
		return Assignment{}, core.NewValidationError(errors.New("tutor must be a teacher"),
			core.FieldError{Field: "teacher_id", Error: "not a teacher"})
	}
	if usr.InstitutionID != na.InstitutionID {
		return Assignment{}, core.NewPermissionError("cannot assign tutors across institutions")
	}

	group := Group{GradeLevel: na.GradeLevel, Section: na.Section}
	exists, err := svc.repo.ExistsFor(ctx, na.TeacherID, na.InstitutionID, group)
	if err != nil {
		return Assignment{}, err
	}
	if exists {
		return Assignment{}, core.NewValidationError(ErrExists, core.FieldError{Field: "teacher_id", Error: ErrExists.Error()})
	}

	now := time.Now().UTC()
	asg := Assignment{
		TeacherID:     na.TeacherID,
		InstitutionID: na.InstitutionID,
		Group:         group,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) ForTeacher(ctx context.Context, institutionID, teacherID string) ([]Assignment, error) {
	return svc.repo.FilterByTeacher(ctx, institutionID, teacherID)
}

func (svc *Service) QueryAll(ctx context.Context, institutionID string) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, institutionID)
}

// Delete removes the assignment. The teacher's assignment view is derived
// by query, so no user document needs patching.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetAssignmentByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAssignmentByID(ctx, id)
}
