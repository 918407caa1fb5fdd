package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Module is a named feature area that scopes permissions.
type Module struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"` // Unique, stored lowercased
	DisplayName string             `json:"displayName" bson:"displayName"`
	Description string             `json:"description" bson:"description"`
	Icon        string             `json:"icon" bson:"icon"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Permission is one grantable capability, always bound to exactly one Module.
type Permission struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"` // e.g. "users.view"
	Module      primitive.ObjectID `json:"module" bson:"module"`
	Description string             `json:"description" bson:"description"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Role bundles permissions. Permissions keeps insertion order and may contain
// duplicates or ids of permissions that have since been deleted.
type Role struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}
