package database

import (
	"context"
	"log"
	"time"

	"admin-panel/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// Collection names shared by repositories and the index bootstrap.
const (
	ModulesCollection     = "modules"
	PermissionsCollection = "permissions"
	RolesCollection       = "roles"
	UsersCollection       = "users"
	CategoriesCollection  = "categories"
	AuditLogsCollection   = "audit_logs"
	LogsCollection        = "logs"
)

// MongodbDB wraps the database handle handed to every repository
type MongodbDB struct {
	DB *mongo.Database
}

// NewDatabase creates a new MongoDB database connection with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")

	db := client.Database(cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}

// CaseInsensitive compares strings ignoring case, so "Admin" and "admin" collide on a unique index.
var CaseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type uniqueIndex struct {
	collection string
	field      string
}

var uniqueIndexes = []uniqueIndex{
	{ModulesCollection, "name"},
	{PermissionsCollection, "name"},
	{RolesCollection, "name"},
	{UsersCollection, "email"},
}

// EnsureIndexes creates the unique indexes the authorization graph relies on,
// plus the lookup indexes used by the referential-integrity counters.
func (m *MongodbDB) EnsureIndexes(ctx context.Context) error {
	for _, idx := range uniqueIndexes {
		model := mongo.IndexModel{
			Keys: bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(idx.field + "_unique_ci").
				SetCollation(CaseInsensitive),
		}
		if _, err := m.DB.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}

	lookups := []struct {
		collection string
		field      string
	}{
		{PermissionsCollection, "module"},
		{UsersCollection, "role"},
		{CategoriesCollection, "createdBy"},
	}
	for _, l := range lookups {
		model := mongo.IndexModel{Keys: bson.D{{Key: l.field, Value: 1}}}
		if _, err := m.DB.Collection(l.collection).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
