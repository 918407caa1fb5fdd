package permission

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

type PermissionRepository interface {
	Create(ctx context.Context, p *models.Permission) error
	FindByID(ctx context.Context, id string) (*models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Permission, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	ListByModule(ctx context.Context, moduleID string, activeOnly bool) ([]models.Permission, error)
	Update(ctx context.Context, p *models.Permission) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByModule(ctx context.Context, moduleID string) (int64, error)
}

type PermissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPermissionRepository(mongodb *database.MongodbDB) PermissionRepository {
	return &PermissionRepositoryImpl{
		Collection: mongodb.DB.Collection(database.PermissionsCollection),
	}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, p *models.Permission) error {
	_, err := r.Collection.InsertOne(ctx, p)
	return database.Translate(err, "name")
}

func (r *PermissionRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Permission, error) {
	var p models.Permission
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate(err, "")
	}
	return &p, nil
}

func (r *PermissionRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Permission, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PermissionRepositoryImpl) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	return r.findOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(database.CaseInsensitive))
}

// FindByIDs returns the permissions that still exist; unknown ids are skipped.
func (r *PermissionRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error) {
	if len(ids) == 0 {
		return []models.Permission{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *PermissionRepositoryImpl) find(ctx context.Context, filter bson.M) ([]models.Permission, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, database.Translate(err, "")
	}
	defer cursor.Close(ctx)

	perms := []models.Permission{}
	if err = cursor.All(ctx, &perms); err != nil {
		return nil, database.Translate(err, "")
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]models.Permission, error) {
	return r.find(ctx, bson.M{})
}

func (r *PermissionRepositoryImpl) ListByModule(ctx context.Context, moduleID string, activeOnly bool) ([]models.Permission, error) {
	oid, ok := database.ObjectID(moduleID)
	if !ok {
		return []models.Permission{}, nil
	}
	filter := bson.M{"module": oid}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.find(ctx, filter)
}

func (r *PermissionRepositoryImpl) Update(ctx context.Context, p *models.Permission) error {
	update := bson.M{
		"$set": bson.M{
			"name":        p.Name,
			"module":      p.Module,
			"description": p.Description,
			"isActive":    p.IsActive,
			"updatedAt":   p.UpdatedAt,
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return database.Translate(err, "name")
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound("Permission")
	}
	return nil
}

func (r *PermissionRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
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

// CountByModule counts every permission bound to the module, active or not.
func (r *PermissionRepositoryImpl) CountByModule(ctx context.Context, moduleID string) (int64, error) {
	oid, ok := database.ObjectID(moduleID)
	if !ok {
		return 0, nil
	}
	n, err := r.Collection.CountDocuments(ctx, bson.M{"module": oid})
	if err != nil {
		return 0, database.Translate(err, "")
	}
	return n, nil
}
