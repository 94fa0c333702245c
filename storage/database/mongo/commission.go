package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qori-edu/backend/core/commission"
)

type commissionDoc struct {
	ID            string    `bson:"_id"`
	InstitutionID string    `bson:"institution"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description,omitempty"`
	IsActive      bool      `bson:"isActive"`
	TeacherIDs    []string  `bson:"teachers"`
	StudentIDs    []string  `bson:"students"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func newCommissionDoc(com commission.Commission) commissionDoc {
	return commissionDoc{
		ID:            com.ID,
		InstitutionID: com.InstitutionID,
		Name:          com.Name,
		Description:   com.Description,
		IsActive:      com.IsActive,
		TeacherIDs:    com.TeacherIDs,
		StudentIDs:    com.StudentIDs,
		CreatedAt:     com.CreatedAt,
		UpdatedAt:     com.UpdatedAt,
	}
}

func (doc commissionDoc) toCommission() commission.Commission {
	return commission.Commission{
		ID:            doc.ID,
		InstitutionID: doc.InstitutionID,
		Name:          doc.Name,
		Description:   doc.Description,
		IsActive:      doc.IsActive,
		TeacherIDs:    doc.TeacherIDs,
		StudentIDs:    doc.StudentIDs,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

type commissionRepository struct {
	col *mongo.Collection
}

var _ commission.Repository = (*commissionRepository)(nil) // interface compliance check

func NewCommissionRepository(db *DB) commission.Repository {
	return &commissionRepository{col: db.db.Collection(colCommissions)}
}

func (repo *commissionRepository) CheckNameUniqueness(ctx context.Context, institutionID, name string, excluded ...commission.Commission) error {
	filter := bson.M{"institution": institutionID, "name": name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, com := range excluded {
			ids = append(ids, com.ID)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}

	err := repo.col.FindOne(ctx, filter).Err()
	if err == nil {
		return commission.ErrNameExists
	}
	if err == mongo.ErrNoDocuments {
		return nil
	}
	return wrapErr(err)
}

func (repo *commissionRepository) CreateCommission(ctx context.Context, com commission.Commission) (commission.Commission, error) {
	com.ID = uuid.NewString()
	if _, err := repo.col.InsertOne(ctx, newCommissionDoc(com)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return commission.Commission{}, commission.ErrNameExists
		}
		return commission.Commission{}, wrapErr(err)
	}
	return com, nil
}

func (repo *commissionRepository) GetCommissionByID(ctx context.Context, id string) (commission.Commission, error) {
	var doc commissionDoc
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return commission.Commission{}, commission.ErrNotFound
		}
		return commission.Commission{}, wrapErr(err)
	}
	return doc.toCommission(), nil
}

func (repo *commissionRepository) QueryCommissions(ctx context.Context, institutionID string) ([]commission.Commission, error) {
	return repo.find(ctx, bson.M{"institution": institutionID})
}

func (repo *commissionRepository) FilterByTeacher(ctx context.Context, institutionID, teacherID string) ([]commission.Commission, error) {
	return repo.find(ctx, bson.M{"institution": institutionID, "teachers": teacherID})
}

func (repo *commissionRepository) FilterByStudent(ctx context.Context, institutionID, studentID string) ([]commission.Commission, error) {
	return repo.find(ctx, bson.M{"institution": institutionID, "students": studentID})
}

func (repo *commissionRepository) find(ctx context.Context, filter bson.M) ([]commission.Commission, error) {
	cur, err := repo.col.Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err)
	}
	var docs []commissionDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err)
	}

	coms := make([]commission.Commission, 0, len(docs))
	for _, doc := range docs {
		coms = append(coms, doc.toCommission())
	}
	return coms, nil
}

func (repo *commissionRepository) UpdateCommission(ctx context.Context, com commission.Commission) (commission.Commission, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": com.ID}, newCommissionDoc(com))
	if err != nil {
		return commission.Commission{}, wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return commission.Commission{}, commission.ErrNotFound
	}
	return com, nil
}

func (repo *commissionRepository) DeleteCommissionByID(ctx context.Context, id string) error {
	_, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}
