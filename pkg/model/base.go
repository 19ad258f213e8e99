package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel replaces gorm.Model with a UUID string key that both the
// postgres and the mongo repositories can store as-is.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:uuid" bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EnsureID assigns a fresh UUID and timestamps when they are missing.
// Mongo repositories call it directly; gorm reaches it via BeforeCreate.
func (b *BaseModel) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
}

// Touch bumps UpdatedAt
func (b *BaseModel) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// BeforeCreate gorm hook
func (b *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	b.EnsureID()
	return
}

// ValidID reports whether id can address a uuid primary key. Relational
// repositories treat anything else as not found instead of a driver error.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
