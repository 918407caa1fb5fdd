package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	// PrincipalKey holds the *Principal attached by the enforcement gates.
	PrincipalKey ContextKey = "principal"
	// ActorIDKey carries the acting user id into services for audit attribution.
	ActorIDKey ContextKey = "actor_id"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`     // Entity kind: module, permission, role, user
	RecordID  string             `bson:"recordId" json:"recordId"` // The ID of the record being modified
	ActorID   string             `bson:"actorId" json:"actorId"`
	ActorName string             `bson:"-" json:"actorName,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
