package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qori-edu/backend/core/announce"
	"github.com/qori-edu/backend/core/visibility"
)

type announceRepository struct {
	anns *mongo.Collection
	tuts *mongo.Collection
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(db *DB) announce.Repository {
	return &announceRepository{
		anns: db.db.Collection(colAnnounce),
		tuts: db.db.Collection(colTutAnnounce),
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (repo *announceRepository) CreateAnnouncement(ctx context.Context, ann announce.Announcement) (announce.Announcement, error) {
	ann.ID = uuid.NewString()
	if _, err := repo.anns.InsertOne(ctx, ann); err != nil {
		return announce.Announcement{}, wrapErr(err)
	}
	return ann, nil
}

func (repo *announceRepository) GetAnnouncementByID(ctx context.Context, id string) (announce.Announcement, error) {
	var ann announce.Announcement
	if err := repo.anns.FindOne(ctx, bson.M{"_id": id}).Decode(&ann); err != nil {
		if err == mongo.ErrNoDocuments {
			return announce.Announcement{}, announce.ErrNotFound
		}
		return announce.Announcement{}, wrapErr(err)
	}
	return ann, nil
}

func (repo *announceRepository) QueryAnnouncements(ctx context.Context, pred visibility.Predicate) ([]announce.Announcement, error) {
	cur, err := repo.anns.Find(ctx, toFilter(pred), newestFirst)
	if err != nil {
		return nil, wrapErr(err)
	}
	var anns []announce.Announcement
	if err = cur.All(ctx, &anns); err != nil {
		return nil, wrapErr(err)
	}
	return anns, nil
}

func (repo *announceRepository) DeleteAnnouncementByID(ctx context.Context, id string) error {
	_, err := repo.anns.DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}

func (repo *announceRepository) CreateTutoringAnnouncement(ctx context.Context, ann announce.TutoringAnnouncement) (announce.TutoringAnnouncement, error) {
	ann.ID = uuid.NewString()
	if _, err := repo.tuts.InsertOne(ctx, ann); err != nil {
		return announce.TutoringAnnouncement{}, wrapErr(err)
	}
	return ann, nil
}

func (repo *announceRepository) GetTutoringAnnouncementByID(ctx context.Context, id string) (announce.TutoringAnnouncement, error) {
	var ann announce.TutoringAnnouncement
	if err := repo.tuts.FindOne(ctx, bson.M{"_id": id}).Decode(&ann); err != nil {
		if err == mongo.ErrNoDocuments {
			return announce.TutoringAnnouncement{}, announce.ErrNotFound
		}
		return announce.TutoringAnnouncement{}, wrapErr(err)
	}
	return ann, nil
}

func (repo *announceRepository) QueryTutoringAnnouncements(ctx context.Context, pred visibility.Predicate) ([]announce.TutoringAnnouncement, error) {
	cur, err := repo.tuts.Find(ctx, toFilter(pred), newestFirst)
	if err != nil {
		return nil, wrapErr(err)
	}
	var anns []announce.TutoringAnnouncement
	if err = cur.All(ctx, &anns); err != nil {
		return nil, wrapErr(err)
	}
	return anns, nil
}

func (repo *announceRepository) DeleteTutoringAnnouncementByID(ctx context.Context, id string) error {
	_, err := repo.tuts.DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}
