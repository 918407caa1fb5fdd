package module

import (
	"context"
	"errors"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ModuleRepository interface {
	Create(ctx context.Context, m *models.Module) error
	FindByID(ctx context.Context, id string) (*models.Module, error)
	FindByName(ctx context.Context, name string) (*models.Module, error)
	List(ctx context.Context, activeOnly bool) ([]models.Module, error)
	Update(ctx context.Context, m *models.Module) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ModuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewModuleRepository(mongodb *database.MongodbDB) ModuleRepository {
	return &ModuleRepositoryImpl{
		Collection: mongodb.DB.Collection(database.ModulesCollection),
	}
}

func (r *ModuleRepositoryImpl) Create(ctx context.Context, m *models.Module) error {
	_, err := r.Collection.InsertOne(ctx, m)
	return database.Translate(err, "name")
}

func (r *ModuleRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Module, error) {
	var m models.Module
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate(err, "")
	}
	return &m, nil
}

func (r *ModuleRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Module, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ModuleRepositoryImpl) FindByName(ctx context.Context, name string) (*models.Module, error) {
	return r.findOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(database.CaseInsensitive))
}

func (r *ModuleRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]models.Module, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, database.Translate(err, "")
	}
	defer cursor.Close(ctx)

	modules := []models.Module{}
	if err = cursor.All(ctx, &modules); err != nil {
		return nil, database.Translate(err, "")
	}
	return modules, nil
}

func (r *ModuleRepositoryImpl) Update(ctx context.Context, m *models.Module) error {
	update := bson.M{
		"$set": bson.M{
			"name":        m.Name,
			"displayName": m.DisplayName,
			"description": m.Description,
			"icon":        m.Icon,
			"isActive":    m.IsActive,
			"updatedAt":   m.UpdatedAt,
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": m.ID}, update)
	if err != nil {
		return database.Translate(err, "name")
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound("Module")
	}
	return nil
}

func (r *ModuleRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
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
