package user

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qori-edu/backend/core"
)

// Role discriminates the user variants. Each role has its own
// required-field set, enforced at construction (see validators.go).
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "administrator"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type (
	// StudentProfile carries the student-only attributes: the homeroom
	// groups the student sits in and the courses they take.
	StudentProfile struct {
		Grades   []string `json:"grades"`
		Sections []string `json:"sections"`
		Courses  []string `json:"courses"`
	}

	// TeacherProfile carries the teacher-only attributes. Commission and
	// tutoring memberships are not stored here; they are derived by query
	// from the commission and tutoring collections.
	TeacherProfile struct {
		Courses []string `json:"courses"`
	}

	User struct {
		ID            string `json:"id"`
		Code          string `json:"code"` // login key, unique process-wide
		Role          Role   `json:"role"`
		InstitutionID string `json:"institution_id"`
		Name          string `json:"name"`
		LastName      string `json:"last_name"`
		Phone         string `json:"phone,omitempty"`
		Email         string `json:"email,omitempty"`

		// exactly one of these is set, matching Role
		Student *StudentProfile `json:"student,omitempty"`
		Teacher *TeacherProfile `json:"teacher,omitempty"`

		PasswordHash []byte    `json:"-"`
		IsActive     bool      `json:"is_active"`
		CreatedAt    time.Time `json:"created_at"` // UTC
		UpdatedAt    time.Time `json:"updated_at"` // UTC
	}
)

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Code            string `json:"code" validate:"required,alphanum_"`
	Role            Role   `json:"role" validate:"required,role"`
	InstitutionID   string `json:"institution_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	Student *StudentProfile `json:"student,omitempty"`
	Teacher *TeacherProfile `json:"teacher,omitempty"`
}

func (nu *NewUser) Validate(ctx context.Context, svc *Service) error {
	nu.Code = core.CleanString(nu.Code, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return core.TranslateError(err)
	}
	return svc.checkUniqueness(ctx, nu.Code)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email" validate:"omitempty,email"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`

	Student *StudentProfile `json:"student,omitempty"`
	Teacher *TeacherProfile `json:"teacher,omitempty"`
}

func (uu *UpdateUser) Validate() error {
	uu.Name = core.CleanString(uu.Name)
	uu.LastName = core.CleanString(uu.LastName)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	return core.TranslateError(core.Validate.Struct(uu))
}

// QueryFilter narrows user queries; fields combine with AND.
type QueryFilter struct {
	Search        string `query:"search"`
	Role          Role   `query:"role"`
	InstitutionID string `query:"institution"`
	Grade         string `query:"grade"`
	Section       string `query:"section"`
	Course        string `query:"course"`
	IsActive      *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.InstitutionID == "" &&
		qf.Grade == "" && qf.Section == "" && qf.Course == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
