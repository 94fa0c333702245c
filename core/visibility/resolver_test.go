package visibility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
)

// stubAssignments serves FilterByGroups and ExistsFor from a fixed slice.
type stubAssignments struct {
	tutoring.Repository
	asgs []tutoring.Assignment
}

func (s *stubAssignments) FilterByGroups(_ context.Context, institutionID string, groups []tutoring.Group) ([]tutoring.Assignment, error) {
	var out []tutoring.Assignment
	for _, asg := range s.asgs {
		if asg.InstitutionID != institutionID {
			continue
		}
		for _, g := range groups {
			if asg.Group == g {
				out = append(out, asg)
				break
			}
		}
	}
	return out, nil
}

func (s *stubAssignments) ExistsFor(_ context.Context, teacherID, institutionID string, group tutoring.Group) (bool, error) {
	for _, asg := range s.asgs {
		if asg.TeacherID == teacherID && asg.InstitutionID == institutionID && asg.Group == group {
			return true, nil
		}
	}
	return false, nil
}

func attendanceDoc(inst, student, teacher, grade, section string, date time.Time) map[string]interface{} {
	return map[string]interface{}{
		FieldInstitution: inst,
		FieldStudent:     student,
		FieldTeacher:     teacher,
		FieldGradeLevel:  grade,
		FieldSection:     section,
		FieldCourse:      "Matemática",
		FieldDate:        date,
	}
}

func announcementDoc(inst, sender string, fields map[string]interface{}) map[string]interface{} {
	doc := map[string]interface{}{
		FieldInstitution: inst,
		FieldSender:      sender,
		FieldGradeLevel:  "",
		FieldSection:     "",
		FieldCourse:      "",
		FieldStudent:     "",
		FieldCommission:  "",
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func TestResolveAttendance(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	student := Identity{ID: "std1", Role: user.RoleStudent, InstitutionID: "inst1", Grades: []string{"3"}, Sections: []string{"B"}}
	teacher := Identity{
		ID: "tch1", Role: user.RoleTeacher, InstitutionID: "inst1",
		TutoringGroups: []tutoring.Group{{GradeLevel: "3", Section: "B"}},
	}
	admin := Identity{ID: "adm1", Role: user.RoleAdmin, InstitutionID: "inst1"}

	own := attendanceDoc("inst1", "std1", "tch1", "3", "B", day)
	otherStudent := attendanceDoc("inst1", "std2", "tch2", "3", "B", day)
	otherGroup := attendanceDoc("inst1", "std3", "tch2", "5", "A", day)
	otherTenant := attendanceDoc("inst2", "std1", "tch1", "3", "B", day)

	tests := []struct {
		name  string
		ident Identity
		doc   map[string]interface{}
		want  bool
	}{
		{"student sees own", student, own, true},
		{"student blind to peers", student, otherStudent, false},
		{"student blind across tenants", student, otherTenant, false},
		{"teacher sees own records", teacher, own, true},
		{"teacher sees tutored group records by others", teacher, otherStudent, true},
		{"teacher blind to untutored groups", teacher, otherGroup, false},
		{"teacher blind across tenants", teacher, otherTenant, false},
		{"admin sees whole tenant", admin, otherGroup, true},
		{"admin blind across tenants", admin, otherTenant, false},
		{"unknown role sees nothing", Identity{ID: "x", Role: "ghost", InstitutionID: "inst1"}, own, false},
	}

	rslv := NewResolver(&stubAssignments{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := rslv.Resolve(ctx, tt.ident, KindAttendance, Filters{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred.Match(tt.doc))
		})
	}
}

func TestResolveFilters(t *testing.T) {
	ctx := context.Background()
	admin := Identity{ID: "adm1", Role: user.RoleAdmin, InstitutionID: "inst1"}
	rslv := NewResolver(&stubAssignments{})

	day := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	doc := attendanceDoc("inst1", "std1", "tch1", "3", "B", core.StartOfDay(day))

	pred, err := rslv.Resolve(ctx, admin, KindAttendance, Filters{GradeLevel: "3", DateFrom: day, DateTo: day})
	require.NoError(t, err)
	assert.True(t, pred.Match(doc), "date filters cover the whole calendar day")

	pred, err = rslv.Resolve(ctx, admin, KindAttendance, Filters{GradeLevel: "5"})
	require.NoError(t, err)
	assert.False(t, pred.Match(doc))

	// exam type is not a field of attendance records; the filter is dropped
	pred, err = rslv.Resolve(ctx, admin, KindAttendance, Filters{ExamType: "Examen Final"})
	require.NoError(t, err)
	assert.True(t, pred.Match(doc))
}

func TestResolveAnnouncementStudent(t *testing.T) {
	ctx := context.Background()
	student := Identity{
		ID: "std1", Role: user.RoleStudent, InstitutionID: "inst1",
		Grades: []string{"3"}, Sections: []string{"B"}, Courses: []string{"Matemática"},
		CommissionIDs: []string{"com1"},
	}
	rslv := NewResolver(&stubAssignments{})

	tests := []struct {
		name string
		doc  map[string]interface{}
		want bool
	}{
		{"institution wide", announcementDoc("inst1", "tch1", nil), true},
		{"addressed to self", announcementDoc("inst1", "tch1", map[string]interface{}{FieldStudent: "std1"}), true},
		{"addressed to another student", announcementDoc("inst1", "tch1", map[string]interface{}{FieldStudent: "std2"}), false},
		{"own commission", announcementDoc("inst1", "tch1", map[string]interface{}{FieldCommission: "com1"}), true},
		{"foreign commission", announcementDoc("inst1", "tch1", map[string]interface{}{FieldCommission: "com9"}), false},
		{"own grade only", announcementDoc("inst1", "tch1", map[string]interface{}{FieldGradeLevel: "3"}), true},
		{"own grade and section", announcementDoc("inst1", "tch1", map[string]interface{}{FieldGradeLevel: "3", FieldSection: "B"}), true},
		{"own grade wrong section", announcementDoc("inst1", "tch1", map[string]interface{}{FieldGradeLevel: "3", FieldSection: "A"}), false},
		{"own course", announcementDoc("inst1", "tch1", map[string]interface{}{FieldCourse: "Matemática"}), true},
		{"foreign course", announcementDoc("inst1", "tch1", map[string]interface{}{FieldCourse: "Historia"}), false},
		{"other tenant", announcementDoc("inst2", "tch1", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := rslv.Resolve(ctx, student, KindAnnouncement, Filters{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred.Match(tt.doc))
		})
	}
}

func TestResolveTutoringAnnouncement(t *testing.T) {
	ctx := context.Background()
	group := tutoring.Group{GradeLevel: "3", Section: "B"}
	assignments := &stubAssignments{asgs: []tutoring.Assignment{
		{ID: "asg1", TeacherID: "tut1", InstitutionID: "inst1", Group: group},
		{ID: "asg2", TeacherID: "tut2", InstitutionID: "inst1", Group: group},
	}}
	rslv := NewResolver(assignments)

	student := Identity{
		ID: "std1", Role: user.RoleStudent, InstitutionID: "inst1",
		Grades: []string{"3"}, Sections: []string{"B"},
	}
	tutDoc := func(sender, grade, section string) map[string]interface{} {
		return map[string]interface{}{
			FieldInstitution: "inst1",
			FieldSender:      sender,
			FieldGradeLevel:  grade,
			FieldSection:     section,
		}
	}

	pred, err := rslv.Resolve(ctx, student, KindTutoringAnnouncement, Filters{})
	require.NoError(t, err)

	// every tutor of the group is visible, not just one
	assert.True(t, pred.Match(tutDoc("tut1", "3", "B")))
	assert.True(t, pred.Match(tutDoc("tut2", "3", "B")))
	assert.False(t, pred.Match(tutDoc("tch9", "3", "B")), "sender is not a tutor of the group")
	assert.False(t, pred.Match(tutDoc("tut1", "5", "A")), "tutor of another group")

	// a student with no matching assignment sees nothing
	orphan := Identity{ID: "std2", Role: user.RoleStudent, InstitutionID: "inst1", Grades: []string{"6"}, Sections: []string{"C"}}
	pred, err = rslv.Resolve(ctx, orphan, KindTutoringAnnouncement, Filters{})
	require.NoError(t, err)
	assert.False(t, pred.Match(tutDoc("tut1", "3", "B")))

	// the tutor sees their own plus their groups'
	tutor := Identity{
		ID: "tut1", Role: user.RoleTeacher, InstitutionID: "inst1",
		TutoringGroups: []tutoring.Group{group},
	}
	pred, err = rslv.Resolve(ctx, tutor, KindTutoringAnnouncement, Filters{})
	require.NoError(t, err)
	assert.True(t, pred.Match(tutDoc("tut1", "3", "B")))
	assert.True(t, pred.Match(tutDoc("tut2", "3", "B")))
	assert.False(t, pred.Match(tutDoc("tut2", "5", "A")))
}

func TestAuthorizeWrite(t *testing.T) {
	ctx := context.Background()
	group := tutoring.Group{GradeLevel: "3", Section: "B"}
	assignments := &stubAssignments{asgs: []tutoring.Assignment{
		{ID: "asg1", TeacherID: "tch1", InstitutionID: "inst1", Group: group},
	}}
	rslv := NewResolver(assignments)

	teacher := Identity{ID: "tch1", Role: user.RoleTeacher, InstitutionID: "inst1", CommissionIDs: []string{"com1"}}
	student := Identity{ID: "std1", Role: user.RoleStudent, InstitutionID: "inst1"}
	admin := Identity{ID: "adm1", Role: user.RoleAdmin, InstitutionID: "inst1"}

	tests := []struct {
		name    string
		ident   Identity
		kind    RecordKind
		wctx    WriteContext
		wantErr bool
	}{
		{"teacher registers own attendance", teacher, KindAttendance, WriteContext{InstitutionID: "inst1", TeacherID: "tch1"}, false},
		{"teacher cannot impersonate", teacher, KindAttendance, WriteContext{InstitutionID: "inst1", TeacherID: "tch2"}, true},
		{"student cannot register grades", student, KindGrade, WriteContext{InstitutionID: "inst1", TeacherID: "std1"}, true},
		{"cross tenant write denied", teacher, KindAttendance, WriteContext{InstitutionID: "inst2", TeacherID: "tch1"}, true},
		{"commission member writes commission attendance", teacher, KindCommissionAttendance, WriteContext{InstitutionID: "inst1", CommissionID: "com1"}, false},
		{"non member cannot", teacher, KindCommissionAttendance, WriteContext{InstitutionID: "inst1", CommissionID: "com9"}, true},
		{"admin sends announcements", admin, KindAnnouncement, WriteContext{InstitutionID: "inst1"}, false},
		{"student cannot send announcements", student, KindAnnouncement, WriteContext{InstitutionID: "inst1"}, true},
		{"tutor sends tutoring announcement", teacher, KindTutoringAnnouncement, WriteContext{InstitutionID: "inst1", GradeLevel: "3", Section: "B"}, false},
		{"non tutor cannot", teacher, KindTutoringAnnouncement, WriteContext{InstitutionID: "inst1", GradeLevel: "5", Section: "A"}, true},
		{"admin cannot send tutoring announcement", admin, KindTutoringAnnouncement, WriteContext{InstitutionID: "inst1", GradeLevel: "3", Section: "B"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rslv.AuthorizeWrite(ctx, tt.ident, tt.kind, tt.wctx)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsPermissionDenied(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
