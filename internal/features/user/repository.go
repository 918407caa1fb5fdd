package user

import (
	"context"
	"errors"
	"time"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	UpdatePassword(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByRole(ctx context.Context, roleID string) (int64, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection(database.UsersCollection),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	_, err := r.Collection.InsertOne(ctx, user)
	return database.Translate(err, "email")
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate(err, "")
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(database.CaseInsensitive))
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := database.ObjectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *UserRepositoryImpl) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, database.Translate(err, "")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, database.Translate(err, "")
	}
	return users, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{})
}

// UpdateFields sets only the named fields and stamps updatedAt. Fields a caller does not
// own are never written, so concurrent edits to other fields survive.
func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	oid, ok := database.ObjectID(id)
	if !ok {
		return apperr.ErrNotFound("User")
	}
	set := bson.M{"updatedAt": time.Now()}
	for key, value := range fields {
		set[key] = value
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return database.Translate(err, "email")
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound("User")
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id string, hash string) error {
	return r.UpdateFields(ctx, id, bson.M{"passwordHash": hash})
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return false, nil
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, database.Translate(err, "")
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepositoryImpl) CountByRole(ctx context.Context, roleID string) (int64, error) {
	oid, ok := database.ObjectID(roleID)
	if !ok {
		return 0, nil
	}
	n, err := r.Collection.CountDocuments(ctx, bson.M{"role": oid})
	if err != nil {
		return 0, database.Translate(err, "")
	}
	return n, nil
}
