package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qori-edu/backend/core/institution"
)

type institutionDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Address   string    `bson:"address,omitempty"`
	Phone     string    `bson:"phone,omitempty"`
	Email     string    `bson:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newInstitutionDoc(inst institution.Institution) institutionDoc {
	return institutionDoc{
		ID:        inst.ID,
		Name:      inst.Name,
		Address:   inst.Address,
		Phone:     inst.Phone,
		Email:     inst.Email,
		CreatedAt: inst.CreatedAt,
		UpdatedAt: inst.UpdatedAt,
	}
}

func (doc institutionDoc) toInstitution() institution.Institution {
	return institution.Institution{
		ID:        doc.ID,
		Name:      doc.Name,
		Address:   doc.Address,
		Phone:     doc.Phone,
		Email:     doc.Email,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type institutionRepository struct {
	col *mongo.Collection
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *DB) institution.Repository {
	return &institutionRepository{col: db.db.Collection(colInstitutions)}
}

func (repo *institutionRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...institution.Institution) error {
	filter := bson.M{"name": name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, inst := range excluded {
			ids = append(ids, inst.ID)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}

	err := repo.col.FindOne(ctx, filter).Err()
	if err == nil {
		return institution.ErrNameExists
	}
	if err == mongo.ErrNoDocuments {
		return nil
	}
	return wrapErr(err)
}

func (repo *institutionRepository) CreateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	inst.ID = uuid.NewString()
	if _, err := repo.col.InsertOne(ctx, newInstitutionDoc(inst)); err != nil {
		return institution.Institution{}, wrapErr(err)
	}
	return inst, nil
}

func (repo *institutionRepository) QueryAllInstitutions(ctx context.Context) ([]institution.Institution, error) {
	cur, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr(err)
	}
	var docs []institutionDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err)
	}

	insts := make([]institution.Institution, 0, len(docs))
	for _, doc := range docs {
		insts = append(insts, doc.toInstitution())
	}
	return insts, nil
}

func (repo *institutionRepository) GetInstitutionByID(ctx context.Context, id string) (institution.Institution, error) {
	var doc institutionDoc
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return institution.Institution{}, institution.ErrNotFound
		}
		return institution.Institution{}, wrapErr(err)
	}
	return doc.toInstitution(), nil
}

func (repo *institutionRepository) UpdateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": inst.ID}, newInstitutionDoc(inst))
	if err != nil {
		return institution.Institution{}, wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return institution.Institution{}, institution.ErrNotFound
	}
	return inst, nil
}

func (repo *institutionRepository) DeleteInstitutionByID(ctx context.Context, id string) error {
	_, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}
