package database

import (
	"errors"

	"admin-panel/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Translate maps a driver error to the apperr taxonomy. uniqueField names the field a
// duplicate-key violation is reported against.
func Translate(err error, uniqueField string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrDuplicateKey(uniqueField, err)
	}
	return apperr.ErrStoreUnavailable(err)
}

// ObjectID parses a hex id; a malformed id is reported as absent rather than as an error.
func ObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
