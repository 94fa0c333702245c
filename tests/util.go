package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/qori-edu/backend/core/commission"
	"github.com/qori-edu/backend/core/institution"
	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
)

func CreateInstitution(t *testing.T, repo institution.Repository, name string) institution.Institution {
	t.Helper()

	now := time.Now().UTC()
	inst, err := repo.CreateInstitution(context.Background(), institution.Institution{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateInstitution() failed: %v", err)
	}
	return inst
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	code string,
	role user.Role,
	institutionID, name, lastName string,
	isActive bool,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Code:          code,
		Role:          role,
		InstitutionID: institutionID,
		Name:          name,
		LastName:      lastName,
		IsActive:      isActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateStudent creates an active student sitting in one homeroom group.
func CreateStudent(
	t *testing.T,
	repo user.Repository,
	code, institutionID, name, lastName string,
	grade, section string,
	courses []string,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Code:          code,
		Role:          user.RoleStudent,
		InstitutionID: institutionID,
		Name:          name,
		LastName:      lastName,
		Student: &user.StudentProfile{
			Grades:   []string{grade},
			Sections: []string{section},
			Courses:  courses,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return usr
}

// CreateTeacher creates an active teacher of the given courses.
func CreateTeacher(
	t *testing.T,
	repo user.Repository,
	code, institutionID, name, lastName string,
	courses []string,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Code:          code,
		Role:          user.RoleTeacher,
		InstitutionID: institutionID,
		Name:          name,
		LastName:      lastName,
		Teacher:       &user.TeacherProfile{Courses: courses},
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return usr
}

// CreateCommission creates a commission with the given rosters.
func CreateCommission(
	t *testing.T,
	repo commission.Repository,
	institutionID, name string,
	teacherIDs, studentIDs []string,
) commission.Commission {
	t.Helper()

	now := time.Now().UTC()
	com, err := repo.CreateCommission(context.Background(), commission.Commission{
		InstitutionID: institutionID,
		Name:          name,
		IsActive:      true,
		TeacherIDs:    teacherIDs,
		StudentIDs:    studentIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateCommission() failed: %v", err)
	}
	return com
}

// CreateAssignment makes a teacher tutor of a homeroom group.
func CreateAssignment(
	t *testing.T,
	repo tutoring.Repository,
	teacherID, institutionID, grade, section string,
) tutoring.Assignment {
	t.Helper()

	now := time.Now().UTC()
	asg, err := repo.CreateAssignment(context.Background(), tutoring.Assignment{
		TeacherID:     teacherID,
		InstitutionID: institutionID,
		Group:         tutoring.Group{GradeLevel: grade, Section: section},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}
