package audit

import (
	"context"

	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows a log listing. Empty fields are ignored.
type Filter struct {
	Module   string
	RecordID string
	ActorID  string
}

type AuditRepository interface {
	Create(ctx context.Context, log common_models.AuditLog) error
	List(ctx context.Context, filter Filter, limit, offset int64) ([]common_models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection(database.AuditLogsCollection),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log common_models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, log)
	return database.Translate(err, "")
}

func (r *AuditRepositoryImpl) List(ctx context.Context, filter Filter, limit, offset int64) ([]common_models.AuditLog, error) {
	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.D{{Key: "timestamp", Value: -1}})

	query := bson.M{}
	if filter.Module != "" {
		query["module"] = filter.Module
	}
	if filter.RecordID != "" {
		query["recordId"] = filter.RecordID
	}
	if filter.ActorID != "" {
		query["actorId"] = filter.ActorID
	}

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, database.Translate(err, "")
	}
	logs := []common_models.AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, database.Translate(err, "")
	}
	return logs, nil
}
