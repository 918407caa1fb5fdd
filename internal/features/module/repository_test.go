package module

import (
	"context"
	"testing"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestModuleRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name maps to DuplicateKey", func(mt *mtest.T) {
		repo := &ModuleRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: modules index: name_unique_ci",
		}))

		err := repo.Create(context.Background(), &common_models.Module{ID: primitive.NewObjectID(), Name: "users"})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.DuplicateKey, e.Kind)
		assert.Equal(t, "name", e.Field)
	})

	mt.Run("other driver errors map to StoreUnavailable", func(mt *mtest.T) {
		repo := &ModuleRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Message: "shutting down"}))

		_, err := repo.List(context.Background(), false)
		assert.Equal(t, apperr.StoreUnavailable, apperr.KindOf(err))
	})

	mt.Run("find by id decodes and absent is nil", func(mt *mtest.T) {
		repo := &ModuleRepositoryImpl{Collection: mt.Coll}
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "users"},
			{Key: "displayName", Value: "Users"},
			{Key: "isActive", Value: true},
		}))

		m, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "users", m.Name)
		assert.True(t, m.IsActive)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		m, err = repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	mt.Run("malformed id is absent without a round trip", func(mt *mtest.T) {
		repo := &ModuleRepositoryImpl{Collection: mt.Coll}
		m, err := repo.FindByID(context.Background(), "not-hex")
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}
