package role

import (
	"context"
	"errors"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context, activeOnly bool) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) (bool, error)
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection(database.RolesCollection),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *models.Role) error {
	if role.Permissions == nil {
		role.Permissions = []primitive.ObjectID{}
	}
	_, err := r.Collection.InsertOne(ctx, role)
	return database.Translate(err, "name")
}

func (r *RoleRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Role, error) {
	var role models.Role
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate(err, "")
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Role, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return r.findOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(database.CaseInsensitive))
}

func (r *RoleRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]models.Role, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, database.Translate(err, "")
	}
	defer cursor.Close(ctx)

	roles := []models.Role{}
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, database.Translate(err, "")
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, role *models.Role) error {
	update := bson.M{
		"$set": bson.M{
			"name":        role.Name,
			"description": role.Description,
			"isActive":    role.IsActive,
			"permissions": role.Permissions,
			"updatedAt":   role.UpdatedAt,
		},
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": role.ID}, update)
	if err != nil {
		return database.Translate(err, "name")
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound("Role")
	}
	return nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
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
