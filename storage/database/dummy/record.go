package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/qori-edu/backend/core/record"
	"github.com/qori-edu/backend/core/visibility"
)

type recordRepository struct {
	db *recordTable
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) record.Repository {
	return &recordRepository{db: db.record}
}

func (repo *recordRepository) FindByKey(_ context.Context, key record.Key) (record.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	id, ok := repo.db.byKey[key]
	if !ok {
		return record.Record{}, record.ErrNotFound
	}
	return *repo.db.table[id], nil
}

func (repo *recordRepository) Insert(_ context.Context, rec record.Record) (record.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := rec.Key()
	if _, ok := repo.db.byKey[key]; ok {
		return record.Record{}, record.ErrDuplicateKey
	}
	rec.ID = uuid.NewString()
	repo.db.table[rec.ID] = &rec
	repo.db.byKey[key] = rec.ID
	return rec, nil
}

func (repo *recordRepository) UpdateRecord(_ context.Context, rec record.Record) (record.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rec.ID]
	if !ok {
		// the engine updates records it just read back; fall back to the key
		id, found := repo.db.byKey[rec.Key()]
		if !found {
			return record.Record{}, record.ErrNotFound
		}
		rec.ID = id
		orig = repo.db.table[id]
	}
	delete(repo.db.byKey, orig.Key())
	repo.db.table[rec.ID] = &rec
	repo.db.byKey[rec.Key()] = rec.ID
	return rec, nil
}

func (repo *recordRepository) Query(_ context.Context, kind visibility.RecordKind, pred visibility.Predicate) ([]record.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var recs []record.Record
	for _, rec := range repo.db.table {
		if rec.Kind == kind && pred.Match(rec.Fields()) {
			recs = append(recs, *rec)
		}
	}
	// newest first, then by student for a stable order
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.After(recs[j].Date)
		}
		return recs[i].StudentID < recs[j].StudentID
	})
	return recs, nil
}

func (repo *recordRepository) DeleteRecordsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if rec, ok := repo.db.table[id]; ok {
			delete(repo.db.byKey, rec.Key())
			delete(repo.db.table, id)
		}
	}
	return nil
}
