package visibility

import (
	"context"
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
)

// RecordKind names a scoped record collection.
type RecordKind string

const (
	KindAttendance           RecordKind = "attendance"
	KindGrade                RecordKind = "grade"
	KindCommissionAttendance RecordKind = "commission_attendance"
	KindAnnouncement         RecordKind = "announcement"
	KindTutoringAnnouncement RecordKind = "tutoring_announcement"
)

// Filters is caller-supplied narrowing. It only ever restricts the base
// predicate; fields a kind does not define are ignored.
type Filters struct {
	GradeLevel   string    `query:"grade_level"`
	Section      string    `query:"section"`
	Course       string    `query:"course"`
	TeacherID    string    `query:"teacher"`
	StudentID    string    `query:"student"`
	SenderID     string    `query:"sender"`
	CommissionID string    `query:"commission"`
	ExamType     string    `query:"exam_type"`
	DateFrom     time.Time `query:"date_from"`
	DateTo       time.Time `query:"date_to"`
}

// WriteContext carries the scope fields of an intended write, checked by
// AuthorizeWrite before the write executes.
type WriteContext struct {
	InstitutionID string
	TeacherID     string
	GradeLevel    string
	Section       string
	CommissionID  string
}

// Resolver builds the per-role visibility predicate for each record kind.
// It consults the tutoring assignments for the student view of tutoring
// announcements; everything else comes from the Identity snapshot.
type Resolver struct {
	assignments tutoring.Repository
}

func NewResolver(assignments tutoring.Repository) *Resolver {
	return &Resolver{assignments: assignments}
}

// Resolve returns the predicate selecting exactly the records the
// identity may read for the kind, narrowed by filters. Tenant isolation
// is absolute: every resolved predicate is conjoined with the identity's
// institution, regardless of role.
func (r *Resolver) Resolve(ctx context.Context, ident Identity, kind RecordKind, filters Filters) (Predicate, error) {
	base, err := r.baseClause(ctx, ident, kind)
	if err != nil {
		return nil, err
	}

	pred := All(Eq(FieldInstitution, ident.InstitutionID), base)
	return All(pred, filterClause(kind, filters)), nil
}

func (r *Resolver) baseClause(ctx context.Context, ident Identity, kind RecordKind) (Predicate, error) {
	switch ident.Role {
	case user.RoleStudent:
		return r.studentClause(ctx, ident, kind)
	case user.RoleTeacher:
		return r.teacherClause(ident, kind), nil
	case user.RoleAdmin:
		// institution-wide, the tenant conjunct is already applied
		return Conj{}, nil
	}
	return None{}, nil
}

func (r *Resolver) studentClause(ctx context.Context, ident Identity, kind RecordKind) (Predicate, error) {
	switch kind {
	case KindAttendance, KindGrade, KindCommissionAttendance:
		return Eq(FieldStudent, ident.ID), nil

	case KindAnnouncement:
		clauses := Disj{
			// addressed directly to self
			Eq(FieldStudent, ident.ID),
			// addressed to a commission the student belongs to
			In(FieldCommission, ident.CommissionIDs),
			// partial scoping: every scoping field either matches the
			// student's own or is unset; all-unset is institution-wide
			All(
				Any(In(FieldGradeLevel, ident.Grades), Eq(FieldGradeLevel, "")),
				Any(In(FieldSection, ident.Sections), Eq(FieldSection, "")),
				Any(In(FieldCourse, ident.Courses), Eq(FieldCourse, "")),
				Eq(FieldStudent, ""),
				Eq(FieldCommission, ""),
			),
		}
		return clauses, nil

	case KindTutoringAnnouncement:
		// only announcements sent by a tutor of the student's own group(s)
		groups := crossGroups(ident.Grades, ident.Sections)
		if len(groups) == 0 {
			return None{}, nil
		}
		asgs, err := r.assignments.FilterByGroups(ctx, ident.InstitutionID, groups)
		if err != nil {
			return nil, err
		}
		if len(asgs) == 0 {
			return None{}, nil
		}
		clauses := make(Disj, 0, len(asgs))
		for _, asg := range asgs {
			clauses = append(clauses, All(
				Eq(FieldGradeLevel, asg.Group.GradeLevel),
				Eq(FieldSection, asg.Group.Section),
				Eq(FieldSender, asg.TeacherID),
			))
		}
		return clauses, nil
	}
	return None{}, nil
}

func (r *Resolver) teacherClause(ident Identity, kind RecordKind) Predicate {
	homerooms := func() Disj {
		clauses := make(Disj, 0, len(ident.TutoringGroups))
		for _, g := range ident.TutoringGroups {
			clauses = append(clauses, All(
				Eq(FieldGradeLevel, g.GradeLevel),
				Eq(FieldSection, g.Section),
			))
		}
		return clauses
	}

	switch kind {
	case KindAttendance, KindGrade:
		// own records, plus every record of a homeroom they tutor
		// regardless of author
		return append(Disj{Eq(FieldTeacher, ident.ID)}, homerooms()...)

	case KindCommissionAttendance:
		return In(FieldCommission, ident.CommissionIDs)

	case KindAnnouncement:
		clauses := Disj{
			Eq(FieldSender, ident.ID),
			In(FieldCourse, ident.Courses),
			In(FieldCommission, ident.CommissionIDs),
			All(
				Eq(FieldGradeLevel, ""),
				Eq(FieldSection, ""),
				Eq(FieldCourse, ""),
				Eq(FieldStudent, ""),
				Eq(FieldCommission, ""),
			),
		}
		return append(clauses, homerooms()...)

	case KindTutoringAnnouncement:
		return append(Disj{Eq(FieldSender, ident.ID)}, homerooms()...)
	}
	return None{}
}

// filterClause turns explicit filters into a conjunction, dropping fields
// the kind does not define.
func filterClause(kind RecordKind, f Filters) Conj {
	var clauses Conj
	add := func(field, val string) {
		if val != "" {
			clauses = append(clauses, Eq(field, val))
		}
	}

	switch kind {
	case KindAttendance, KindGrade:
		add(FieldGradeLevel, f.GradeLevel)
		add(FieldSection, f.Section)
		add(FieldCourse, f.Course)
		add(FieldTeacher, f.TeacherID)
		add(FieldStudent, f.StudentID)
		if kind == KindGrade {
			add(FieldExamType, f.ExamType)
		}
	case KindCommissionAttendance:
		add(FieldCommission, f.CommissionID)
		add(FieldStudent, f.StudentID)
	case KindAnnouncement:
		add(FieldGradeLevel, f.GradeLevel)
		add(FieldSection, f.Section)
		add(FieldCourse, f.Course)
		add(FieldStudent, f.StudentID)
		add(FieldSender, f.SenderID)
		add(FieldCommission, f.CommissionID)
	case KindTutoringAnnouncement:
		add(FieldGradeLevel, f.GradeLevel)
		add(FieldSection, f.Section)
		add(FieldSender, f.SenderID)
	}

	switch kind {
	case KindAttendance, KindGrade, KindCommissionAttendance:
		if !f.DateFrom.IsZero() {
			clauses = append(clauses, Gte(FieldDate, core.StartOfDay(f.DateFrom)))
		}
		if !f.DateTo.IsZero() {
			clauses = append(clauses, Lte(FieldDate, core.EndOfDay(f.DateTo)))
		}
	}
	return clauses
}

// AuthorizeWrite applies the write rule for the kind: a narrower subset
// of the read predicate, checked synchronously before any side effect.
func (r *Resolver) AuthorizeWrite(ctx context.Context, ident Identity, kind RecordKind, wctx WriteContext) error {
	if wctx.InstitutionID != "" && wctx.InstitutionID != ident.InstitutionID {
		return core.NewPermissionError("cannot write records of another institution")
	}

	switch kind {
	case KindAttendance, KindGrade:
		if ident.Role != user.RoleTeacher {
			return core.NewPermissionError("only teachers may register attendance or grades")
		}
		if wctx.TeacherID != ident.ID {
			return core.NewPermissionError("teachers may only author records as themselves")
		}
		return nil

	case KindCommissionAttendance:
		if ident.Role != user.RoleTeacher {
			return core.NewPermissionError("only teachers may register commission attendance")
		}
		if !core.ContainsString(ident.CommissionIDs, wctx.CommissionID) {
			return core.NewPermissionError("teacher is not a member of this commission")
		}
		return nil

	case KindAnnouncement:
		if ident.Role != user.RoleTeacher && ident.Role != user.RoleAdmin {
			return core.NewPermissionError("only teachers and administrators may send announcements")
		}
		return nil

	case KindTutoringAnnouncement:
		if ident.Role != user.RoleTeacher {
			return core.NewPermissionError("only teachers may send tutoring announcements")
		}
		group := tutoring.Group{GradeLevel: wctx.GradeLevel, Section: wctx.Section}
		exists, err := r.assignments.ExistsFor(ctx, ident.ID, ident.InstitutionID, group)
		if err != nil {
			return err
		}
		if !exists {
			return core.NewPermissionError("no tutoring assignment for this group")
		}
		return nil
	}
	return core.NewPermissionError("unrecognized record kind")
}

func crossGroups(grades, sections []string) []tutoring.Group {
	groups := make([]tutoring.Group, 0, len(grades)*len(sections))
	for _, g := range grades {
		for _, s := range sections {
			groups = append(groups, tutoring.Group{GradeLevel: g, Section: s})
		}
	}
	return groups
}
