package commission

import (
	"time"

	"github.com/qori-edu/backend/core"
)

// Commission is an institution-scoped named group of teachers and
// students, orthogonal to grade/section. Its rosters are the single
// authoritative record of membership; a user's commission list is always
// derived by querying these rosters, never stored on the user.
type Commission struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"is_active"`
	TeacherIDs    []string  `json:"teacher_ids"`
	StudentIDs    []string  `json:"student_ids"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

func (c *Commission) HasTeacher(id string) bool { return core.ContainsString(c.TeacherIDs, id) }
func (c *Commission) HasStudent(id string) bool { return core.ContainsString(c.StudentIDs, id) }

// NewCommission contains information needed to create a new Commission.
type NewCommission struct {
	InstitutionID string `json:"institution_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
}

func (nc *NewCommission) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.TranslateError(core.Validate.Struct(nc))
}
