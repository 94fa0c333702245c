package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/qori-edu/backend/core/tutoring"
)

type tutoringRepository struct {
	db *tutoringTable
}

var _ tutoring.Repository = (*tutoringRepository)(nil) // interface compliance check

func NewTutoringRepository(db *DB) tutoring.Repository {
	return &tutoringRepository{db: db.tutoring}
}

func (repo *tutoringRepository) query(institutionID string) []tutoring.Assignment {
	asgs := make([]tutoring.Assignment, 0, len(repo.db.table))
	for _, asg := range repo.db.table {
		if institutionID == "" || asg.InstitutionID == institutionID {
			asgs = append(asgs, *asg)
		}
	}
	return asgs
}

func (repo *tutoringRepository) CreateAssignment(_ context.Context, asg tutoring.Assignment) (tutoring.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg.ID = uuid.NewString()
	repo.db.table[asg.ID] = &asg
	return asg, nil
}

func (repo *tutoringRepository) GetAssignmentByID(_ context.Context, id string) (tutoring.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.table[id]; ok {
		return *asg, nil
	}
	return tutoring.Assignment{}, tutoring.ErrNotFound
}

func (repo *tutoringRepository) ExistsFor(_ context.Context, teacherID, institutionID string, group tutoring.Group) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, asg := range repo.query(institutionID) {
		if asg.TeacherID == teacherID && asg.Group == group {
			return true, nil
		}
	}
	return false, nil
}

func (repo *tutoringRepository) FilterByTeacher(_ context.Context, institutionID, teacherID string) ([]tutoring.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var asgs []tutoring.Assignment
	for _, asg := range repo.query(institutionID) {
		if asg.TeacherID == teacherID {
			asgs = append(asgs, asg)
		}
	}
	return asgs, nil
}

func (repo *tutoringRepository) FilterByGroups(_ context.Context, institutionID string, groups []tutoring.Group) ([]tutoring.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var asgs []tutoring.Assignment
	for _, asg := range repo.query(institutionID) {
		for _, group := range groups {
			if asg.Group == group {
				asgs = append(asgs, asg)
				break
			}
		}
	}
	return asgs, nil
}

func (repo *tutoringRepository) QueryAssignments(_ context.Context, institutionID string) ([]tutoring.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(institutionID), nil
}

func (repo *tutoringRepository) DeleteAssignmentByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
