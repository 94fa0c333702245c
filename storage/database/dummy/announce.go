package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/qori-edu/backend/core/announce"
	"github.com/qori-edu/backend/core/visibility"
)

type announceRepository struct {
	db *announceTable
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(db *DB) announce.Repository {
	return &announceRepository{db: db.announce}
}

func (repo *announceRepository) CreateAnnouncement(_ context.Context, ann announce.Announcement) (announce.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ann.ID = uuid.NewString()
	repo.db.anns[ann.ID] = &ann
	return ann, nil
}

func (repo *announceRepository) GetAnnouncementByID(_ context.Context, id string) (announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.anns[id]; ok {
		return *ann, nil
	}
	return announce.Announcement{}, announce.ErrNotFound
}

func (repo *announceRepository) QueryAnnouncements(_ context.Context, pred visibility.Predicate) ([]announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var anns []announce.Announcement
	for _, ann := range repo.db.anns {
		if pred.Match(ann.Fields()) {
			anns = append(anns, *ann)
		}
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *announceRepository) DeleteAnnouncementByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.anns, id)
	return nil
}

func (repo *announceRepository) CreateTutoringAnnouncement(_ context.Context, ann announce.TutoringAnnouncement) (announce.TutoringAnnouncement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ann.ID = uuid.NewString()
	repo.db.tuts[ann.ID] = &ann
	return ann, nil
}

func (repo *announceRepository) GetTutoringAnnouncementByID(_ context.Context, id string) (announce.TutoringAnnouncement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.tuts[id]; ok {
		return *ann, nil
	}
	return announce.TutoringAnnouncement{}, announce.ErrNotFound
}

func (repo *announceRepository) QueryTutoringAnnouncements(_ context.Context, pred visibility.Predicate) ([]announce.TutoringAnnouncement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var anns []announce.TutoringAnnouncement
	for _, ann := range repo.db.tuts {
		if pred.Match(ann.Fields()) {
			anns = append(anns, *ann)
		}
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *announceRepository) DeleteTutoringAnnouncementByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.tuts, id)
	return nil
}
