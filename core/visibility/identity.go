package visibility

import (
	"context"

	"github.com/qori-edu/backend/core/commission"
	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
)

// Identity is the resolved scope snapshot for one authenticated user,
// built once per request. It is read-only for the duration of the
// resolver call; a relationship change mid-request is acceptable to miss.
type Identity struct {
	ID            string
	Role          user.Role
	InstitutionID string

	// student scope
	Grades   []string
	Sections []string
	Courses  []string

	// teacher and student scope
	CommissionIDs []string

	// teacher scope
	TutoringGroups []tutoring.Group
}

// IdentityService turns a user id into an Identity by reading the
// relationship graph (commission rosters, tutoring assignments).
type IdentityService struct {
	users       user.Repository
	commissions commission.Repository
	assignments tutoring.Repository
}

func NewIdentityService(users user.Repository, commissions commission.Repository, assignments tutoring.Repository) *IdentityService {
	return &IdentityService{users: users, commissions: commissions, assignments: assignments}
}

func (svc *IdentityService) Resolve(ctx context.Context, userID string) (Identity, error) {
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: userID})
	if err != nil {
		return Identity{}, err
	}
	return svc.ResolveUser(ctx, usr)
}

func (svc *IdentityService) ResolveUser(ctx context.Context, usr user.User) (Identity, error) {
	ident := Identity{
		ID:            usr.ID,
		Role:          usr.Role,
		InstitutionID: usr.InstitutionID,
	}

	switch {
	case usr.IsStudent() && usr.Student != nil:
		ident.Grades = usr.Student.Grades
		ident.Sections = usr.Student.Sections
		ident.Courses = usr.Student.Courses

		coms, err := svc.commissions.FilterByStudent(ctx, usr.InstitutionID, usr.ID)
		if err != nil {
			return Identity{}, err
		}
		ident.CommissionIDs = commissionIDs(coms)

	case usr.IsTeacher() && usr.Teacher != nil:
		ident.Courses = usr.Teacher.Courses

		coms, err := svc.commissions.FilterByTeacher(ctx, usr.InstitutionID, usr.ID)
		if err != nil {
			return Identity{}, err
		}
		ident.CommissionIDs = commissionIDs(coms)

		asgs, err := svc.assignments.FilterByTeacher(ctx, usr.InstitutionID, usr.ID)
		if err != nil {
			return Identity{}, err
		}
		for _, asg := range asgs {
			ident.TutoringGroups = append(ident.TutoringGroups, asg.Group)
		}
	}
	return ident, nil
}

func commissionIDs(coms []commission.Commission) []string {
	ids := make([]string, 0, len(coms))
	for _, com := range coms {
		ids = append(ids, com.ID)
	}
	return ids
}
