package category

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

// CategoryRepository scopes every read and write to the owning user.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, owner primitive.ObjectID, id string) (*models.Category, error)
	FindByName(ctx context.Context, owner primitive.ObjectID, name, categoryType string) (*models.Category, error)
	List(ctx context.Context, owner primitive.ObjectID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, owner primitive.ObjectID, id string) (bool, error)
}

type CategoryRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCategoryRepository(mongodb *database.MongodbDB) CategoryRepository {
	return &CategoryRepositoryImpl{
		Collection: mongodb.DB.Collection(database.CategoriesCollection),
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) error {
	_, err := r.Collection.InsertOne(ctx, category)
	return database.Translate(err, "name")
}

func (r *CategoryRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var category models.Category
	err := r.Collection.FindOne(ctx, filter).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate(err, "")
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, owner primitive.ObjectID, id string) (*models.Category, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid, "createdBy": owner})
}

func (r *CategoryRepositoryImpl) FindByName(ctx context.Context, owner primitive.ObjectID, name, categoryType string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"name": name, "type": categoryType, "createdBy": owner})
}

func (r *CategoryRepositoryImpl) List(ctx context.Context, owner primitive.ObjectID) ([]models.Category, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"createdBy": owner}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, database.Translate(err, "")
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, database.Translate(err, "")
	}
	return categories, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": category.ID, "createdBy": category.CreatedBy},
		bson.M{"$set": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"type":        category.Type,
			"icon":        category.Icon,
			"color":       category.Color,
			"isActive":    category.IsActive,
			"updatedAt":   category.UpdatedAt,
		}},
	)
	if err != nil {
		return database.Translate(err, "name")
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound("Category")
	}
	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, owner primitive.ObjectID, id string) (bool, error) {
	oid, ok := database.ObjectID(id)
	if !ok {
		return false, nil
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "createdBy": owner})
	if err != nil {
		return false, database.Translate(err, "")
	}
	return res.DeletedCount > 0, nil
}
