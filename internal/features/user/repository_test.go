package user

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

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email maps to DuplicateKey", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_unique_ci",
		}))

		err := repo.Create(context.Background(), &common_models.User{ID: primitive.NewObjectID(), Email: "a@b.io"})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.DuplicateKey, e.Kind)
		assert.Equal(t, "email", e.Field)
	})

	mt.Run("count by role", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.CountByRole(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	mt.Run("malformed ids never reach the store", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}

		u, err := repo.FindByID(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, u)

		deleted, err := repo.Delete(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, deleted)

		users, err := repo.FindByIDs(context.Background(), []string{"nope"})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	mt.Run("delete reports whether a document went away", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		deleted, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	mt.Run("update of a missing user is NotFound", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateFields(context.Background(), primitive.NewObjectID().Hex(), bson.M{"phone": "555"})
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	mt.Run("field updates set only the named fields", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		require.NoError(t, repo.UpdatePassword(context.Background(), primitive.NewObjectID().Hex(), "new-hash"))

		cmd := mt.GetStartedEvent().Command
		set := cmd.Lookup("updates").Array().Index(0).Value().Document().Lookup("u", "$set").Document()
		assert.Equal(t, "new-hash", set.Lookup("passwordHash").StringValue())
		_, err := set.LookupErr("role")
		assert.Error(t, err, "role is never part of a password write")
		_, err = set.LookupErr("name")
		assert.Error(t, err)
		_, err = set.LookupErr("updatedAt")
		assert.NoError(t, err)
	})

	mt.Run("malformed id never reaches the store on update", func(mt *mtest.T) {
		repo := &UserRepositoryImpl{Collection: mt.Coll}
		err := repo.UpdateFields(context.Background(), "nope", bson.M{"phone": "555"})
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})
}
