package models

import "github.com/google/uuid"

type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindHost  PrincipalKind = "host"
	KindAdmin PrincipalKind = "admin"
)

// Identity is the discriminated identity store. Its id is the token subject
// and the primary key of the matching users/hosts/admins row.
type Identity struct {
	ID    uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Kind  PrincipalKind `gorm:"size:10;not null;uniqueIndex:idx_identity_kind_email" json:"kind"`
	Email string        `gorm:"size:255;not null;uniqueIndex:idx_identity_kind_email" json:"email"`
}
