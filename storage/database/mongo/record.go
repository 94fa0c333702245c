package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qori-edu/backend/core/record"
	"github.com/qori-edu/backend/core/visibility"
)

type recordRepository struct {
	col *mongo.Collection
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) record.Repository {
	return &recordRepository{col: db.db.Collection(colRecords)}
}

// keyFilter matches exactly the document holding the natural key. Blank
// scope fields must also match their absence, since they are stored with
// omitempty.
func keyFilter(key record.Key) bson.M {
	blankOK := func(s string) interface{} {
		if s == "" {
			return bson.M{"$in": bson.A{"", nil}}
		}
		return s
	}
	return bson.M{
		"kind":        string(key.Kind),
		"institution": key.InstitutionID,
		"student":     key.StudentID,
		"course":      blankOK(key.Course),
		"gradeLevel":  blankOK(key.GradeLevel),
		"section":     blankOK(key.Section),
		"commission":  blankOK(key.CommissionID),
		"examType":    blankOK(key.ExamType),
		"date":        key.Date,
	}
}

func (repo *recordRepository) FindByKey(ctx context.Context, key record.Key) (record.Record, error) {
	var rec record.Record
	if err := repo.col.FindOne(ctx, keyFilter(key)).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return record.Record{}, record.ErrNotFound
		}
		return record.Record{}, wrapErr(err)
	}
	return rec, nil
}

func (repo *recordRepository) Insert(ctx context.Context, rec record.Record) (record.Record, error) {
	rec.ID = uuid.NewString()
	if _, err := repo.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return record.Record{}, record.ErrDuplicateKey
		}
		return record.Record{}, wrapErr(err)
	}
	return rec, nil
}

func (repo *recordRepository) UpdateRecord(ctx context.Context, rec record.Record) (record.Record, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec)
	if err != nil {
		return record.Record{}, wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return record.Record{}, record.ErrNotFound
	}
	return rec, nil
}

func (repo *recordRepository) Query(ctx context.Context, kind visibility.RecordKind, pred visibility.Predicate) ([]record.Record, error) {
	filter := bson.M{"$and": bson.A{
		bson.M{"kind": string(kind)},
		toFilter(pred),
	}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "student", Value: 1}})

	cur, err := repo.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var recs []record.Record
	if err = cur.All(ctx, &recs); err != nil {
		return nil, wrapErr(err)
	}
	return recs, nil
}

func (repo *recordRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	_, err := repo.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return wrapErr(err)
}
