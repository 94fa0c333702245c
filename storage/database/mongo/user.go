package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qori-edu/backend/core/user"
)

type (
	studentProfileDoc struct {
		Grades   []string `bson:"grades"`
		Sections []string `bson:"sections"`
		Courses  []string `bson:"courses"`
	}

	teacherProfileDoc struct {
		Courses []string `bson:"courses"`
	}

	userDoc struct {
		ID            string    `bson:"_id"`
		Code          string    `bson:"code"`
		Role          string    `bson:"role"`
		InstitutionID string    `bson:"institution"`
		Name          string    `bson:"name"`
		LastName      string    `bson:"lastName"`
		Phone         string    `bson:"phone,omitempty"`
		Email         string    `bson:"email,omitempty"`
		PasswordHash  []byte    `bson:"passwordHash"`
		IsActive      bool      `bson:"isActive"`
		CreatedAt     time.Time `bson:"createdAt"`
		UpdatedAt     time.Time `bson:"updatedAt"`

		Student *studentProfileDoc `bson:"student,omitempty"`
		Teacher *teacherProfileDoc `bson:"teacher,omitempty"`
	}
)

func newUserDoc(usr user.User) userDoc {
	doc := userDoc{
		ID:            usr.ID,
		Code:          usr.Code,
		Role:          string(usr.Role),
		InstitutionID: usr.InstitutionID,
		Name:          usr.Name,
		LastName:      usr.LastName,
		Phone:         usr.Phone,
		Email:         usr.Email,
		PasswordHash:  usr.PasswordHash,
		IsActive:      usr.IsActive,
		CreatedAt:     usr.CreatedAt,
		UpdatedAt:     usr.UpdatedAt,
	}
	if usr.Student != nil {
		doc.Student = &studentProfileDoc{
			Grades:   usr.Student.Grades,
			Sections: usr.Student.Sections,
			Courses:  usr.Student.Courses,
		}
	}
	if usr.Teacher != nil {
		doc.Teacher = &teacherProfileDoc{Courses: usr.Teacher.Courses}
	}
	return doc
}

func (doc userDoc) toUser() user.User {
	usr := user.User{
		ID:            doc.ID,
		Code:          doc.Code,
		Role:          user.Role(doc.Role),
		InstitutionID: doc.InstitutionID,
		Name:          doc.Name,
		LastName:      doc.LastName,
		Phone:         doc.Phone,
		Email:         doc.Email,
		PasswordHash:  doc.PasswordHash,
		IsActive:      doc.IsActive,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if doc.Student != nil {
		usr.Student = &user.StudentProfile{
			Grades:   doc.Student.Grades,
			Sections: doc.Student.Sections,
			Courses:  doc.Student.Courses,
		}
	}
	if doc.Teacher != nil {
		usr.Teacher = &user.TeacherProfile{Courses: doc.Teacher.Courses}
	}
	return usr
}

type userRepository struct {
	col *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{col: db.db.Collection(colUsers)}
}

func (repo *userRepository) CheckCodeUniqueness(ctx context.Context, code string, excludedUsers ...user.User) error {
	filter := bson.M{"code": code}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}

	err := repo.col.FindOne(ctx, filter).Err()
	if err == nil {
		return user.ErrCodeExists
	}
	if err == mongo.ErrNoDocuments {
		return nil
	}
	return wrapErr(err)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	if _, err := repo.col.InsertOne(ctx, newUserDoc(usr)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrCodeExists
		}
		return user.User{}, wrapErr(err)
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	query := bson.M{}
	if filter.ID != "" {
		query["_id"] = filter.ID
	} else {
		query["code"] = filter.Code
	}

	var doc userDoc
	if err := repo.col.FindOne(ctx, query).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapErr(err)
	}
	return doc.toUser(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	query := bson.M{}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"lastName": regex},
			bson.M{"code": regex},
		}
	}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	if filter.InstitutionID != "" {
		query["institution"] = filter.InstitutionID
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.Grade != "" {
		query["student.grades"] = filter.Grade
	}
	if filter.Section != "" {
		query["student.sections"] = filter.Section
	}
	if filter.Course != "" {
		query["$and"] = bson.A{bson.M{"$or": bson.A{
			bson.M{"student.courses": filter.Course},
			bson.M{"teacher.courses": filter.Course},
		}}}
	}

	cur, err := repo.col.Find(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	var docs []userDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err)
	}

	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": usr.ID}, newUserDoc(usr))
	if err != nil {
		return user.User{}, wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	_, err := repo.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return wrapErr(err)
}
