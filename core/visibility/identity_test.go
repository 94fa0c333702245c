package visibility_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
	"github.com/qori-edu/backend/core/visibility"
	dummydb "github.com/qori-edu/backend/storage/database/dummy"
	testutil "github.com/qori-edu/backend/tests"
)

func TestIdentityResolution(t *testing.T) {
	ctx := context.Background()
	db, err := dummydb.Open()
	require.NoError(t, err)

	instRepo := dummydb.NewInstitutionRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	comRepo := dummydb.NewCommissionRepository(db)
	tutRepo := dummydb.NewTutoringRepository(db)

	inst := testutil.CreateInstitution(t, instRepo, "Colegio San Martín")
	teacher := testutil.CreateTeacher(t, usrRepo, "tch01", inst.ID, "María", "Flores", []string{"Matemática", "Física"})
	student := testutil.CreateStudent(t, usrRepo, "std01", inst.ID, "Ana", "Quispe", "3", "B", []string{"Matemática"})
	admin := testutil.CreateUser(t, usrRepo, "adm01", user.RoleAdmin, inst.ID, "Rosa", "Mamani", true)

	com := testutil.CreateCommission(t, comRepo, inst.ID, "Deportes", []string{teacher.ID}, []string{student.ID})
	testutil.CreateAssignment(t, tutRepo, teacher.ID, inst.ID, "3", "B")

	svc := visibility.NewIdentityService(usrRepo, comRepo, tutRepo)

	t.Run("teacher", func(t *testing.T) {
		ident, err := svc.Resolve(ctx, teacher.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleTeacher, ident.Role)
		assert.Equal(t, inst.ID, ident.InstitutionID)
		assert.Equal(t, []string{"Matemática", "Física"}, ident.Courses)
		assert.Equal(t, []string{com.ID}, ident.CommissionIDs)
		assert.Equal(t, []tutoring.Group{{GradeLevel: "3", Section: "B"}}, ident.TutoringGroups)
	})

	t.Run("student", func(t *testing.T) {
		ident, err := svc.Resolve(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, ident.Role)
		assert.Equal(t, []string{"3"}, ident.Grades)
		assert.Equal(t, []string{"B"}, ident.Sections)
		assert.Equal(t, []string{com.ID}, ident.CommissionIDs)
		assert.Empty(t, ident.TutoringGroups)
	})

	t.Run("admin carries no derived scope", func(t *testing.T) {
		ident, err := svc.Resolve(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, ident.Role)
		assert.Empty(t, ident.Grades)
		assert.Empty(t, ident.CommissionIDs)
	})

	t.Run("membership is severed by roster removal", func(t *testing.T) {
		com.StudentIDs = nil
		_, err := comRepo.UpdateCommission(ctx, com)
		require.NoError(t, err)

		ident, err := svc.Resolve(ctx, student.ID)
		require.NoError(t, err)
		assert.Empty(t, ident.CommissionIDs)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "nope")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}
