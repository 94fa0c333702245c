package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/user"
	dummydb "github.com/qori-edu/backend/storage/database/dummy"
)

func newTestService(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewUserRepository(db)
	return user.NewService(repo), repo
}

func newStudent(code string) user.NewUser {
	return user.NewUser{
		Code:            code,
		Role:            user.RoleStudent,
		InstitutionID:   "inst1",
		Name:            "Ana",
		LastName:        "Quispe",
		Password:        "v3ryS3cret!pwd",
		PasswordConfirm: "v3ryS3cret!pwd",
		Student: &user.StudentProfile{
			Grades:   []string{"3"},
			Sections: []string{"B"},
			Courses:  []string{"Matemática"},
		},
	}
}

func newTeacher(code string) user.NewUser {
	return user.NewUser{
		Code:            code,
		Role:            user.RoleTeacher,
		InstitutionID:   "inst1",
		Name:            "María",
		LastName:        "Flores",
		Password:        "v3ryS3cret!pwd",
		PasswordConfirm: "v3ryS3cret!pwd",
		Teacher:         &user.TeacherProfile{Courses: []string{"Matemática"}},
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("student", func(t *testing.T) {
		usr, err := svc.Create(ctx, newStudent("std01"))
		require.NoError(t, err)
		assert.NotEmpty(t, usr.ID)
		assert.True(t, usr.IsActive)
		assert.True(t, usr.IsStudent())
		require.NotNil(t, usr.Student)
		assert.Nil(t, usr.Teacher)
		assert.NoError(t, usr.CheckPassword("v3ryS3cret!pwd"))
	})

	t.Run("teacher", func(t *testing.T) {
		usr, err := svc.Create(ctx, newTeacher("tch01"))
		require.NoError(t, err)
		assert.True(t, usr.IsTeacher())
		assert.NotNil(t, usr.Teacher)
	})

	t.Run("administrator", func(t *testing.T) {
		nu := user.NewUser{
			Code:            "adm01",
			Role:            user.RoleAdmin,
			InstitutionID:   "inst1",
			Name:            "Rosa",
			LastName:        "Mamani",
			Password:        "v3ryS3cret!pwd",
			PasswordConfirm: "v3ryS3cret!pwd",
		}
		usr, err := svc.Create(ctx, nu)
		require.NoError(t, err)
		assert.True(t, usr.IsAdmin())
		assert.Nil(t, usr.Student)
		assert.Nil(t, usr.Teacher)
	})

	t.Run("code is normalized", func(t *testing.T) {
		nu := newStudent("  STD02  ")
		usr, err := svc.Create(ctx, nu)
		require.NoError(t, err)
		assert.Equal(t, "std02", usr.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, newStudent("std01"))
		require.Error(t, err)
		assert.True(t, core.IsValidationError(err))
	})
}

func TestCreateUserProfileMismatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(nu *user.NewUser)
	}{
		{"student without profile", func(nu *user.NewUser) { nu.Student = nil }},
		{"student without grades", func(nu *user.NewUser) { nu.Student.Grades = nil }},
		{"student without sections", func(nu *user.NewUser) { nu.Student.Sections = nil }},
		{"student with teacher profile", func(nu *user.NewUser) { nu.Teacher = &user.TeacherProfile{} }},
		{"invalid role", func(nu *user.NewUser) { nu.Role = "principal" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := newStudent("stdx")
			tt.mutate(&nu)
			_, err := svc.Create(ctx, nu)
			assert.True(t, core.IsValidationError(err))
		})
	}

	t.Run("teacher without profile", func(t *testing.T) {
		nu := newTeacher("tchx")
		nu.Teacher = nil
		_, err := svc.Create(ctx, nu)
		assert.True(t, core.IsValidationError(err))
	})
	t.Run("admin with student profile", func(t *testing.T) {
		nu := newStudent("admx")
		nu.Role = user.RoleAdmin
		_, err := svc.Create(ctx, nu)
		assert.True(t, core.IsValidationError(err))
	})
}

func TestCreateUserPasswordPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		pwd  string
	}{
		{"too short", "aB1!"},
		{"whitespace", "aB1! aB1!"},
		{"all numeric", "12345678"},
		{"no complexity", "abcdefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := newStudent("stdp")
			nu.Password = tt.pwd
			nu.PasswordConfirm = tt.pwd
			_, err := svc.Create(ctx, nu)
			assert.True(t, core.IsValidationError(err), "expected a validation error, got %v", err)
		})
	}

	t.Run("similar to name", func(t *testing.T) {
		nu := newStudent("stdp")
		nu.Name = "V3ryS3cret"
		_, err := svc.Create(ctx, nu)
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("mismatched confirm", func(t *testing.T) {
		nu := newStudent("stdp")
		nu.PasswordConfirm = "something else"
		_, err := svc.Create(ctx, nu)
		assert.True(t, core.IsValidationError(err))
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, newStudent("std01"))
	require.NoError(t, err)

	usr, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, usr.Code)

	usr, err = svc.GetByCode(ctx, "STD01") // lookup is case-insensitive
	require.NoError(t, err)
	assert.Equal(t, created.ID, usr.ID)

	_, err = svc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, newStudent("std01"))
	require.NoError(t, err)

	t.Run("partial fields", func(t *testing.T) {
		inactive := false
		usr, err := svc.Update(ctx, created.ID, user.UpdateUser{
			Phone:    "987654321",
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, "987654321", usr.Phone)
		assert.False(t, usr.IsActive)
		assert.Equal(t, created.Name, usr.Name, "unset fields are kept")
	})

	t.Run("profile replaces wholesale", func(t *testing.T) {
		usr, err := svc.Update(ctx, created.ID, user.UpdateUser{
			Student: &user.StudentProfile{Grades: []string{"4"}, Sections: []string{"A"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"4"}, usr.Student.Grades)
		assert.Empty(t, usr.Student.Courses)
	})

	t.Run("mismatched profile is ignored", func(t *testing.T) {
		usr, err := svc.Update(ctx, created.ID, user.UpdateUser{
			Teacher: &user.TeacherProfile{Courses: []string{"Historia"}},
		})
		require.NoError(t, err)
		assert.Nil(t, usr.Teacher)
		assert.True(t, usr.IsStudent(), "role never changes after creation")
	})

	t.Run("password change", func(t *testing.T) {
		usr, err := svc.Update(ctx, created.ID, user.UpdateUser{
			Password:        "an0therS3cret!",
			PasswordConfirm: "an0therS3cret!",
		})
		require.NoError(t, err)
		assert.NoError(t, usr.CheckPassword("an0therS3cret!"))
	})
}

func TestFilterUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, newStudent("std01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newTeacher("tch01"))
	require.NoError(t, err)

	other := newStudent("std02")
	other.Student = &user.StudentProfile{Grades: []string{"5"}, Sections: []string{"A"}, Courses: []string{"Historia"}}
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []string
	}{
		{"by role", user.QueryFilter{Role: user.RoleTeacher}, []string{"tch01"}},
		{"by grade and section", user.QueryFilter{Grade: "3", Section: "B"}, []string{"std01"}},
		{"by course matches both roles", user.QueryFilter{Course: "Matemática"}, []string{"std01", "tch01"}},
		{"by search", user.QueryFilter{Search: "quispe"}, []string{"std01", "std02"}},
		{"no match", user.QueryFilter{Grade: "6"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.Filter(ctx, tt.filter)
			require.NoError(t, err)
			var codes []string
			for _, usr := range users {
				codes = append(codes, usr.Code)
			}
			assert.ElementsMatch(t, tt.want, codes)
		})
	}
}

func TestDeleteUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	usr, err := svc.Create(ctx, newStudent("std01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, usr.ID))
	_, err = svc.GetByID(ctx, usr.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
