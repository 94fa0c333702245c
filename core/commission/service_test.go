package commission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/commission"
	"github.com/qori-edu/backend/core/user"
	dummydb "github.com/qori-edu/backend/storage/database/dummy"
	testutil "github.com/qori-edu/backend/tests"
)

type fixture struct {
	svc     *commission.Service
	repo    commission.Repository
	teacher user.User
	student user.User
	foreign user.User // teacher of another institution
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	repo := dummydb.NewCommissionRepository(db)

	return fixture{
		svc:     commission.NewService(repo, usrRepo),
		repo:    repo,
		teacher: testutil.CreateTeacher(t, usrRepo, "tch01", "inst1", "María", "Flores", []string{"Matemática"}),
		student: testutil.CreateStudent(t, usrRepo, "std01", "inst1", "Ana", "Quispe", "3", "B", nil),
		foreign: testutil.CreateTeacher(t, usrRepo, "tch99", "inst2", "Juan", "Mamani", nil),
	}
}

func TestCreateCommission(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	com, err := fx.svc.Create(ctx, commission.NewCommission{InstitutionID: "inst1", Name: "Deportes"})
	require.NoError(t, err)
	assert.NotEmpty(t, com.ID)
	assert.True(t, com.IsActive)

	t.Run("duplicate name in same institution", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, commission.NewCommission{InstitutionID: "inst1", Name: "Deportes"})
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("same name in another institution is fine", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, commission.NewCommission{InstitutionID: "inst2", Name: "Deportes"})
		assert.NoError(t, err)
	})
}

func TestAssignMembers(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	com, err := fx.svc.Create(ctx, commission.NewCommission{InstitutionID: "inst1", Name: "Deportes"})
	require.NoError(t, err)

	t.Run("add teacher", func(t *testing.T) {
		com, err := fx.svc.AssignTeacher(ctx, com.ID, fx.teacher.ID, true)
		require.NoError(t, err)
		assert.True(t, com.HasTeacher(fx.teacher.ID))

		// adding twice keeps the roster deduplicated
		com, err = fx.svc.AssignTeacher(ctx, com.ID, fx.teacher.ID, true)
		require.NoError(t, err)
		assert.Len(t, com.TeacherIDs, 1)
	})

	t.Run("add student", func(t *testing.T) {
		com, err := fx.svc.AssignStudent(ctx, com.ID, fx.student.ID, true)
		require.NoError(t, err)
		assert.True(t, com.HasStudent(fx.student.ID))
	})

	t.Run("membership is derived from the roster", func(t *testing.T) {
		coms, err := fx.svc.ForTeacher(ctx, "inst1", fx.teacher.ID)
		require.NoError(t, err)
		assert.Len(t, coms, 1)

		coms, err = fx.svc.ForStudent(ctx, "inst1", fx.student.ID)
		require.NoError(t, err)
		assert.Len(t, coms, 1)
	})

	t.Run("student cannot join the teacher roster", func(t *testing.T) {
		_, err := fx.svc.AssignTeacher(ctx, com.ID, fx.student.ID, true)
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("cross institution assignment denied", func(t *testing.T) {
		_, err := fx.svc.AssignTeacher(ctx, com.ID, fx.foreign.ID, true)
		assert.True(t, core.IsPermissionDenied(err))
	})

	t.Run("removal severs the derived view", func(t *testing.T) {
		_, err := fx.svc.AssignTeacher(ctx, com.ID, fx.teacher.ID, false)
		require.NoError(t, err)

		coms, err := fx.svc.ForTeacher(ctx, "inst1", fx.teacher.ID)
		require.NoError(t, err)
		assert.Empty(t, coms)
	})
}

func TestDeleteCommission(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	com, err := fx.svc.Create(ctx, commission.NewCommission{InstitutionID: "inst1", Name: "Deportes"})
	require.NoError(t, err)
	_, err = fx.svc.AssignStudent(ctx, com.ID, fx.student.ID, true)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, com.ID))

	// no dangling membership: the derived view is empty once the roster
	// document is gone
	coms, err := fx.svc.ForStudent(ctx, "inst1", fx.student.ID)
	require.NoError(t, err)
	assert.Empty(t, coms)

	assert.ErrorIs(t, fx.svc.Delete(ctx, com.ID), commission.ErrNotFound)
}
