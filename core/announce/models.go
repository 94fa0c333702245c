package announce

import (
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/visibility"
)

type (
	// Announcement is a message from a teacher or administrator to some
	// slice of an institution. The scoping fields combine conjunctively;
	// a blank field leaves that axis unscoped, all blank means the whole
	// institution.
	Announcement struct {
		ID            string `json:"id" bson:"_id,omitempty"`
		InstitutionID string `json:"institution_id" bson:"institution"`
		SenderID      string `json:"sender_id" bson:"sender"`
		Subject       string `json:"subject" bson:"subject"`
		Message       string `json:"message" bson:"message"`

		GradeLevel   string `json:"grade_level,omitempty" bson:"gradeLevel,omitempty"`
		Section      string `json:"section,omitempty" bson:"section,omitempty"`
		Course       string `json:"course,omitempty" bson:"course,omitempty"`
		StudentID    string `json:"student_id,omitempty" bson:"student,omitempty"`
		CommissionID string `json:"commission_id,omitempty" bson:"commission,omitempty"`

		CreatedAt time.Time `json:"created_at" bson:"createdAt"`
		UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
	}

	// TutoringAnnouncement is a tutor's message to their homeroom group.
	// Unlike Announcement it is always fully scoped to one group.
	TutoringAnnouncement struct {
		ID            string `json:"id" bson:"_id,omitempty"`
		InstitutionID string `json:"institution_id" bson:"institution"`
		SenderID      string `json:"sender_id" bson:"sender"`
		Subject       string `json:"subject" bson:"subject"`
		Message       string `json:"message" bson:"message"`
		GradeLevel    string `json:"grade_level" bson:"gradeLevel"`
		Section       string `json:"section" bson:"section"`

		CreatedAt time.Time `json:"created_at" bson:"createdAt"`
		UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
	}
)

func (ann Announcement) Fields() map[string]interface{} {
	return map[string]interface{}{
		visibility.FieldInstitution: ann.InstitutionID,
		visibility.FieldSender:      ann.SenderID,
		visibility.FieldGradeLevel:  ann.GradeLevel,
		visibility.FieldSection:     ann.Section,
		visibility.FieldCourse:      ann.Course,
		visibility.FieldStudent:     ann.StudentID,
		visibility.FieldCommission:  ann.CommissionID,
	}
}

func (ann TutoringAnnouncement) Fields() map[string]interface{} {
	return map[string]interface{}{
		visibility.FieldInstitution: ann.InstitutionID,
		visibility.FieldSender:      ann.SenderID,
		visibility.FieldGradeLevel:  ann.GradeLevel,
		visibility.FieldSection:     ann.Section,
	}
}

type NewAnnouncement struct {
	InstitutionID string `json:"institution_id" validate:"required"`
	SenderID      string `json:"sender_id" validate:"required"`
	Subject       string `json:"subject" validate:"required,max=255"`
	Message       string `json:"message" validate:"required"`

	GradeLevel   string `json:"grade_level"`
	Section      string `json:"section"`
	Course       string `json:"course"`
	StudentID    string `json:"student_id"`
	CommissionID string `json:"commission_id"`
}

func (na *NewAnnouncement) Validate() error {
	na.Subject = core.CleanString(na.Subject)
	na.Message = core.CleanString(na.Message)
	if err := core.Validate.Struct(na); err != nil {
		return core.TranslateError(err)
	}
	return nil
}

type NewTutoringAnnouncement struct {
	InstitutionID string `json:"institution_id" validate:"required"`
	SenderID      string `json:"sender_id" validate:"required"`
	Subject       string `json:"subject" validate:"required,max=255"`
	Message       string `json:"message" validate:"required"`
	GradeLevel    string `json:"grade_level" validate:"required"`
	Section       string `json:"section" validate:"required"`
}

func (na *NewTutoringAnnouncement) Validate() error {
	na.Subject = core.CleanString(na.Subject)
	na.Message = core.CleanString(na.Message)
	if err := core.Validate.Struct(na); err != nil {
		return core.TranslateError(err)
	}
	return nil
}
