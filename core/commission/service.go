package commission

import (
	"context"
	"errors"
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/user"
)

var (
	ErrNotFound   = errors.New("commission not found")
	ErrNameExists = errors.New("a commission with this name already exists in this institution")
)

type (
	Repository interface {
		// CheckNameUniqueness fails with ErrNameExists if another commission
		// of the same institution (outside excluded) already holds the name.
		CheckNameUniqueness(ctx context.Context, institutionID, name string, excluded ...Commission) error
		CreateCommission(ctx context.Context, com Commission) (Commission, error)
		GetCommissionByID(ctx context.Context, id string) (Commission, error)
		QueryCommissions(ctx context.Context, institutionID string) ([]Commission, error)
		// FilterByTeacher / FilterByStudent derive a user's membership view
		// from the rosters.
		FilterByTeacher(ctx context.Context, institutionID, teacherID string) ([]Commission, error)
		FilterByStudent(ctx context.Context, institutionID, studentID string) ([]Commission, error)
		UpdateCommission(ctx context.Context, com Commission) (Commission, error)
		DeleteCommissionByID(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) Create(ctx context.Context, nc NewCommission) (Commission, error) {
	if err := nc.Validate(); err != nil {
		return Commission{}, err
	}
	if err := svc.repo.CheckNameUniqueness(ctx, nc.InstitutionID, nc.Name); err != nil {
		if err == ErrNameExists {
			return Commission{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return Commission{}, err
	}

	now := time.Now().UTC()
	com := Commission{
		InstitutionID: nc.InstitutionID,
		Name:          nc.Name,
		Description:   nc.Description,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateCommission(ctx, com)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Commission, error) {
	return svc.repo.GetCommissionByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context, institutionID string) ([]Commission, error) {
	return svc.repo.QueryCommissions(ctx, institutionID)
}

func (svc *Service) ForTeacher(ctx context.Context, institutionID, teacherID string) ([]Commission, error) {
	return svc.repo.FilterByTeacher(ctx, institutionID, teacherID)
}

func (svc *Service) ForStudent(ctx context.Context, institutionID, studentID string) ([]Commission, error) {
	return svc.repo.FilterByStudent(ctx, institutionID, studentID)
}

// AssignTeacher adds or removes a teacher from the roster. Membership
// lives on the commission document only, so there is no second side to
// keep consistent.
func (svc *Service) AssignTeacher(ctx context.Context, commissionID, teacherID string, add bool) (Commission, error) {
	com, err := svc.repo.GetCommissionByID(ctx, commissionID)
	if err != nil {
		return Commission{}, err
	}
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: teacherID})
	if err != nil {
		return Commission{}, err
	}
	if !usr.IsTeacher() {
		return Commission{}, core.NewValidationError(errors.New("only teachers can be assigned to a commission roster of teachers"),
			core.FieldError{Field: "teacher_id", Error: "not a teacher"})
	}
	if usr.InstitutionID != com.InstitutionID {
		return Commission{}, core.NewPermissionError("cannot assign members across institutions")
	}

	if add {
		if !com.HasTeacher(teacherID) {
			com.TeacherIDs = append(com.TeacherIDs, teacherID)
		}
	} else {
		com.TeacherIDs = removeString(com.TeacherIDs, teacherID)
	}
	com.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCommission(ctx, com)
}

// AssignStudent adds or removes a student from the roster.
func (svc *Service) AssignStudent(ctx context.Context, commissionID, studentID string, add bool) (Commission, error) {
	com, err := svc.repo.GetCommissionByID(ctx, commissionID)
	if err != nil {
		return Commission{}, err
	}
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: studentID})
	if err != nil {
		return Commission{}, err
	}
	if !usr.IsStudent() {
		return Commission{}, core.NewValidationError(errors.New("only students can be assigned to a commission roster of students"),
			core.FieldError{Field: "student_id", Error: "not a student"})
	}
	if usr.InstitutionID != com.InstitutionID {
		return Commission{}, core.NewPermissionError("cannot assign members across institutions")
	}

	if add {
		if !com.HasStudent(studentID) {
			com.StudentIDs = append(com.StudentIDs, studentID)
		}
	} else {
		com.StudentIDs = removeString(com.StudentIDs, studentID)
	}
	com.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCommission(ctx, com)
}

func (svc *Service) Update(ctx context.Context, id, name, description string, isActive *bool) (Commission, error) {
	com, err := svc.repo.GetCommissionByID(ctx, id)
	if err != nil {
		return Commission{}, err
	}
	name = core.CleanString(name)
	if name != "" && name != com.Name {
		if err := svc.repo.CheckNameUniqueness(ctx, com.InstitutionID, name, com); err != nil {
			if err == ErrNameExists {
				return Commission{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
			}
			return Commission{}, err
		}
		com.Name = name
	}
	if description != "" {
		com.Description = core.CleanString(description)
	}
	if isActive != nil {
		com.IsActive = *isActive
	}
	com.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCommission(ctx, com)
}

// Delete removes the commission. Since membership is derived from the
// roster, deleting the document also severs every member's link; no
// per-user cleanup can be missed.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetCommissionByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteCommissionByID(ctx, id)
}

func removeString(ss []string, s string) []string {
	out := ss[:0]
	for _, el := range ss {
		if el != s {
			out = append(out, el)
		}
	}
	return out
}
