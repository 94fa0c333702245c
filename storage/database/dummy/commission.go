package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/qori-edu/backend/core/commission"
)

type commissionRepository struct {
	db *commissionTable
}

var _ commission.Repository = (*commissionRepository)(nil) // interface compliance check

func NewCommissionRepository(db *DB) commission.Repository {
	return &commissionRepository{db: db.commission}
}

func (repo *commissionRepository) query(institutionID string) []commission.Commission {
	coms := make([]commission.Commission, 0, len(repo.db.table))
	for _, com := range repo.db.table {
		if institutionID == "" || com.InstitutionID == institutionID {
			coms = append(coms, *com)
		}
	}
	return coms
}

func (repo *commissionRepository) CheckNameUniqueness(_ context.Context, institutionID, name string, excluded ...commission.Commission) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, com := range repo.query(institutionID) {
		if com.Name == name && !commissionExcluded(com, excluded) {
			return commission.ErrNameExists
		}
	}
	return nil
}

func (repo *commissionRepository) CreateCommission(_ context.Context, com commission.Commission) (commission.Commission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	com.ID = uuid.NewString()
	repo.db.table[com.ID] = &com
	return com, nil
}

func (repo *commissionRepository) GetCommissionByID(_ context.Context, id string) (commission.Commission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if com, ok := repo.db.table[id]; ok {
		return *com, nil
	}
	return commission.Commission{}, commission.ErrNotFound
}

func (repo *commissionRepository) QueryCommissions(_ context.Context, institutionID string) ([]commission.Commission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(institutionID), nil
}

func (repo *commissionRepository) FilterByTeacher(_ context.Context, institutionID, teacherID string) ([]commission.Commission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var coms []commission.Commission
	for _, com := range repo.query(institutionID) {
		if com.HasTeacher(teacherID) {
			coms = append(coms, com)
		}
	}
	return coms, nil
}

func (repo *commissionRepository) FilterByStudent(_ context.Context, institutionID, studentID string) ([]commission.Commission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var coms []commission.Commission
	for _, com := range repo.query(institutionID) {
		if com.HasStudent(studentID) {
			coms = append(coms, com)
		}
	}
	return coms, nil
}

func (repo *commissionRepository) UpdateCommission(_ context.Context, com commission.Commission) (commission.Commission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[com.ID]; !ok {
		return commission.Commission{}, commission.ErrNotFound
	}
	repo.db.table[com.ID] = &com
	return com, nil
}

func (repo *commissionRepository) DeleteCommissionByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}

func commissionExcluded(com commission.Commission, excluded []commission.Commission) bool {
	for _, excl := range excluded {
		if excl.ID == com.ID {
			return true
		}
	}
	return false
}
