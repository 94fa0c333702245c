package record

import (
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/visibility"
)

// Attendance statuses. Empty values are skipped at registration, anything
// else outside the set is rejected per item.
var AttendanceStatuses = []string{"Presente", "Tardanza", "Falta"}

// Commission attendance supports a justified absence on top of the
// classroom set.
var CommissionAttendanceStatuses = []string{"Presente", "Ausente", "Tardanza", "Justificado"}

// Exam types a grade batch may carry. DefaultExamType applies when the
// batch context leaves it blank.
var ExamTypes = []string{
	"Examen Parcial",
	"Examen Final",
	"Prueba Corta",
	"Trabajo Práctico",
	"Participación",
	"Otro",
}

const DefaultExamType = "Prueba Corta"

type (
	// Record is one fact about one student on one day, of any of the three
	// registrable kinds. Kind decides which of the value fields are
	// meaningful: Status for the attendance kinds, Score/ExamType for grades.
	Record struct {
		ID            string                `json:"id" bson:"_id,omitempty"`
		Kind          visibility.RecordKind `json:"kind" bson:"kind"`
		InstitutionID string                `json:"institution_id" bson:"institution"`
		StudentID     string                `json:"student_id" bson:"student"`
		TeacherID     string                `json:"teacher_id" bson:"teacher"`
		Course        string                `json:"course,omitempty" bson:"course,omitempty"`
		GradeLevel    string                `json:"grade_level,omitempty" bson:"gradeLevel,omitempty"`
		Section       string                `json:"section,omitempty" bson:"section,omitempty"`
		CommissionID  string                `json:"commission_id,omitempty" bson:"commission,omitempty"`
		ExamType      string                `json:"exam_type,omitempty" bson:"examType,omitempty"`
		Date          time.Time             `json:"date" bson:"date"`

		Status  string `json:"status,omitempty" bson:"status,omitempty"`
		Score   string `json:"score,omitempty" bson:"score,omitempty"`
		Comment string `json:"comment,omitempty" bson:"comment,omitempty"`

		CreatedAt time.Time `json:"created_at" bson:"createdAt"`
		UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
	}

	// Key is the natural identity of a record. Two submissions producing the
	// same Key address the same stored document.
	Key struct {
		Kind          visibility.RecordKind
		InstitutionID string
		StudentID     string
		Course        string
		GradeLevel    string
		Section       string
		CommissionID  string
		ExamType      string
		Date          time.Time
	}
)

// Key derives the record's natural key. The date collapses to midnight so
// any two submissions within the same calendar day collide.
func (rec Record) Key() Key {
	k := Key{
		Kind:          rec.Kind,
		InstitutionID: rec.InstitutionID,
		StudentID:     rec.StudentID,
		Date:          core.StartOfDay(rec.Date),
	}
	switch rec.Kind {
	case visibility.KindAttendance:
		k.Course = rec.Course
		k.GradeLevel = rec.GradeLevel
		k.Section = rec.Section
	case visibility.KindGrade:
		k.Course = rec.Course
		k.GradeLevel = rec.GradeLevel
		k.Section = rec.Section
		k.ExamType = rec.ExamType
	case visibility.KindCommissionAttendance:
		k.CommissionID = rec.CommissionID
	}
	return k
}

// Fields flattens the record into the document shape predicates evaluate
// against. Field names match the visibility field constants and the bson
// tags, so in-memory and native filtering agree.
func (rec Record) Fields() map[string]interface{} {
	return map[string]interface{}{
		visibility.FieldInstitution: rec.InstitutionID,
		visibility.FieldStudent:     rec.StudentID,
		visibility.FieldTeacher:     rec.TeacherID,
		visibility.FieldCourse:      rec.Course,
		visibility.FieldGradeLevel:  rec.GradeLevel,
		visibility.FieldSection:     rec.Section,
		visibility.FieldCommission:  rec.CommissionID,
		visibility.FieldExamType:    rec.ExamType,
		visibility.FieldDate:        rec.Date,
	}
}

type (
	// Context is the shared scope of one registration batch. Every item in
	// the roster inherits it.
	Context struct {
		Kind          visibility.RecordKind `json:"kind"`
		InstitutionID string                `json:"institution_id"`
		TeacherID     string                `json:"teacher_id"`
		Course        string                `json:"course,omitempty"`
		GradeLevel    string                `json:"grade_level,omitempty"`
		Section       string                `json:"section,omitempty"`
		CommissionID  string                `json:"commission_id,omitempty"`
		ExamType      string                `json:"exam_type,omitempty"`
		Date          time.Time             `json:"date"`
	}

	// Item is one roster row: a student and the value recorded for them.
	Item struct {
		StudentID string `json:"student_id"`
		Value     string `json:"value"`
		Comment   string `json:"comment,omitempty"`
	}

	Roster []Item
)

// Validate checks that the context carries every field its kind requires
// and normalizes defaults (exam type, date truncation is left to Key).
func (rctx *Context) Validate() error {
	flds := requireFields(map[string]string{
		"institution_id": rctx.InstitutionID,
		"teacher_id":     rctx.TeacherID,
	})

	switch rctx.Kind {
	case visibility.KindAttendance:
		flds = append(flds, requireFields(map[string]string{
			"course":      rctx.Course,
			"grade_level": rctx.GradeLevel,
			"section":     rctx.Section,
		})...)
	case visibility.KindGrade:
		flds = append(flds, requireFields(map[string]string{
			"course":      rctx.Course,
			"grade_level": rctx.GradeLevel,
			"section":     rctx.Section,
		})...)
		if rctx.ExamType == "" {
			rctx.ExamType = DefaultExamType
		} else if !core.ContainsString(ExamTypes, rctx.ExamType) {
			flds = append(flds, core.FieldError{Field: "exam_type", Error: "unknown exam type"})
		}
	case visibility.KindCommissionAttendance:
		flds = append(flds, requireFields(map[string]string{
			"commission_id": rctx.CommissionID,
		})...)
	default:
		flds = append(flds, core.FieldError{Field: "kind", Error: "not a registrable record kind"})
	}

	if rctx.Date.IsZero() {
		flds = append(flds, core.FieldError{Field: "date", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func requireFields(vals map[string]string) []core.FieldError {
	var flds []core.FieldError
	for name, val := range vals {
		if val == "" {
			flds = append(flds, core.FieldError{Field: name, Error: "this field is required"})
		}
	}
	return flds
}

// validValue reports whether the item value is acceptable for the kind.
// Grades accept any non-empty score string.
func validValue(kind visibility.RecordKind, value string) bool {
	switch kind {
	case visibility.KindAttendance:
		return core.ContainsString(AttendanceStatuses, value)
	case visibility.KindCommissionAttendance:
		return core.ContainsString(CommissionAttendanceStatuses, value)
	case visibility.KindGrade:
		return value != ""
	}
	return false
}
