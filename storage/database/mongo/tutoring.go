package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qori-edu/backend/core/tutoring"
)

type tutoringDoc struct {
	ID            string    `bson:"_id"`
	TeacherID     string    `bson:"teacher"`
	InstitutionID string    `bson:"institution"`
	GradeLevel    string    `bson:"gradeLevel"`
	Section       string    `bson:"section"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func newTutoringDoc(asg tutoring.Assignment) tutoringDoc {
	return tutoringDoc{
		ID:            asg.ID,
		TeacherID:     asg.TeacherID,
		InstitutionID: asg.InstitutionID,
		GradeLevel:    asg.Group.GradeLevel,
		Section:       asg.Group.Section,
		CreatedAt:     asg.CreatedAt,
		UpdatedAt:     asg.UpdatedAt,
	}
}

func (doc tutoringDoc) toAssignment() tutoring.Assignment {
	return tutoring.Assignment{
		ID:            doc.ID,
		TeacherID:     doc.TeacherID,
		InstitutionID: doc.InstitutionID,
		Group:         tutoring.Group{GradeLevel: doc.GradeLevel, Section: doc.Section},
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

type tutoringRepository struct {
	col *mongo.Collection
}

var _ tutoring.Repository = (*tutoringRepository)(nil) // interface compliance check

func NewTutoringRepository(db *DB) tutoring.Repository {
	return &tutoringRepository{col: db.db.Collection(colTutoring)}
}

func (repo *tutoringRepository) CreateAssignment(ctx context.Context, asg tutoring.Assignment) (tutoring.Assignment, error) {
	asg.ID = uuid.NewString()
	if _, err := repo.col.InsertOne(ctx, newTutoringDoc(asg)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tutoring.Assignment{}, tutoring.ErrExists
		}
		return tutoring.Assignment{}, wrapErr(err)
	}
	return asg, nil
}

func (repo *tutoringRepository) GetAssignmentByID(ctx context.Context, id string) (tutoring.Assignment, error) {
	var doc tutoringDoc
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return tutoring.Assignment{}, tutoring.ErrNotFound
		}
		return tutoring.Assignment{}, wrapErr(err)
	}
	return doc.toAssignment(), nil
}

func (repo *tutoringRepository) ExistsFor(ctx context.Context, teacherID, institutionID string, group tutoring.Group) (bool, error) {
	err := repo.col.FindOne(ctx, bson.M{
		"teacher":     teacherID,
		"institution": institutionID,
		"gradeLevel":  group.GradeLevel,
		"section":     group.Section,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, wrapErr(err)
}

func (repo *tutoringRepository) FilterByTeacher(ctx context.Context, institutionID, teacherID string) ([]tutoring.Assignment, error) {
	return repo.find(ctx, bson.M{"institution": institutionID, "teacher": teacherID})
}

func (repo *tutoringRepository) FilterByGroups(ctx context.Context, institutionID string, groups []tutoring.Group) ([]tutoring.Assignment, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	clauses := make(bson.A, 0, len(groups))
	for _, group := range groups {
		clauses = append(clauses, bson.M{"gradeLevel": group.GradeLevel, "section": group.Section})
	}
	return repo.find(ctx, bson.M{"institution": institutionID, "$or": clauses})
}

func (repo *tutoringRepository) QueryAssignments(ctx context.Context, institutionID string) ([]tutoring.Assignment, error) {
	return repo.find(ctx, bson.M{"institution": institutionID})
}

func (repo *tutoringRepository) find(ctx context.Context, filter bson.M) ([]tutoring.Assignment, error) {
	cur, err := repo.col.Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err)
	}
	var docs []tutoringDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err)
	}

	asgs := make([]tutoring.Assignment, 0, len(docs))
	for _, doc := range docs {
		asgs = append(asgs, doc.toAssignment())
	}
	return asgs, nil
}

func (repo *tutoringRepository) DeleteAssignmentByID(ctx context.Context, id string) error {
	_, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}
