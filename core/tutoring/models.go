package tutoring

import (
	"time"

	"github.com/qori-edu/backend/core"
)

// Group identifies one homeroom: a (gradeLevel, section) pair within an
// institution.
type Group struct {
	GradeLevel string `json:"grade_level"`
	Section    string `json:"section"`
}

// Assignment binds one teacher to one homeroom group. Uniqueness is
// enforced on the full (teacher, institution, gradeLevel, section) tuple;
// two different teachers may both be tutors of the same group.
type Assignment struct {
	ID            string    `json:"id"`
	TeacherID     string    `json:"teacher_id"`
	InstitutionID string    `json:"institution_id"`
	Group         Group     `json:"group"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	TeacherID     string `json:"teacher_id" validate:"required"`
	InstitutionID string `json:"institution_id" validate:"required"`
	GradeLevel    string `json:"grade_level" validate:"required"`
	Section       string `json:"section" validate:"required"`
}

func (na *NewAssignment) Validate() error {
	na.GradeLevel = core.CleanString(na.GradeLevel)
	na.Section = core.CleanString(na.Section)
	return core.TranslateError(core.Validate.Struct(na))
}
