package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the services rely on. It is
// idempotent and meant to run at deploy time (see the admin app).
func (d *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "institution", Value: 1}, {Key: "role", Value: 1}}},
		},
		colInstitutions: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		colCommissions: {
			{Keys: bson.D{{Key: "institution", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "teachers", Value: 1}}},
			{Keys: bson.D{{Key: "students", Value: 1}}},
		},
		colTutoring: {
			{
				Keys: bson.D{
					{Key: "teacher", Value: 1},
					{Key: "institution", Value: 1},
					{Key: "gradeLevel", Value: 1},
					{Key: "section", Value: 1},
				},
				Options: unique,
			},
		},
		colRecords: {
			// the natural key; unset scope fields index as null so the
			// uniqueness holds across kinds
			{
				Keys: bson.D{
					{Key: "kind", Value: 1},
					{Key: "institution", Value: 1},
					{Key: "student", Value: 1},
					{Key: "course", Value: 1},
					{Key: "gradeLevel", Value: 1},
					{Key: "section", Value: 1},
					{Key: "commission", Value: 1},
					{Key: "examType", Value: 1},
					{Key: "date", Value: 1},
				},
				Options: unique,
			},
			{Keys: bson.D{{Key: "institution", Value: 1}, {Key: "kind", Value: 1}, {Key: "date", Value: -1}}},
		},
		colAnnounce: {
			{Keys: bson.D{{Key: "institution", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colTutAnnounce: {
			{Keys: bson.D{{Key: "institution", Value: 1}, {Key: "gradeLevel", Value: 1}, {Key: "section", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := d.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}
