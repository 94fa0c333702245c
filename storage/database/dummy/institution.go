package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/qori-edu/backend/core/institution"
)

type institutionRepository struct {
	db *institutionTable
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *DB) institution.Repository {
	return &institutionRepository{db: db.institution}
}

func (repo *institutionRepository) query() []institution.Institution {
	insts := make([]institution.Institution, 0, len(repo.db.table))
	for _, inst := range repo.db.table {
		insts = append(insts, *inst)
	}
	return insts
}

func (repo *institutionRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...institution.Institution) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, inst := range repo.query() {
		if inst.Name == name && !institutionExcluded(inst, excluded) {
			return institution.ErrNameExists
		}
	}
	return nil
}

func (repo *institutionRepository) CreateInstitution(_ context.Context, inst institution.Institution) (institution.Institution, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	inst.ID = uuid.NewString()
	repo.db.table[inst.ID] = &inst
	return inst, nil
}

func (repo *institutionRepository) QueryAllInstitutions(_ context.Context) ([]institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *institutionRepository) GetInstitutionByID(_ context.Context, id string) (institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inst, ok := repo.db.table[id]; ok {
		return *inst, nil
	}
	return institution.Institution{}, institution.ErrNotFound
}

func (repo *institutionRepository) UpdateInstitution(_ context.Context, inst institution.Institution) (institution.Institution, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[inst.ID]; !ok {
		return institution.Institution{}, institution.ErrNotFound
	}
	repo.db.table[inst.ID] = &inst
	return inst, nil
}

func (repo *institutionRepository) DeleteInstitutionByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}

func institutionExcluded(inst institution.Institution, excluded []institution.Institution) bool {
	for _, excl := range excluded {
		if excl.ID == inst.ID {
			return true
		}
	}
	return false
}
