package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and audit columns shared by every entity.
// The identity is assigned on first insert when the caller did not set one;
// CreatedAt/UpdatedAt are maintained by the ORM, so UpdatedAt >= CreatedAt
// holds for every persisted row.
type Base struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// GetID lets generic code read the identity without knowing the entity type.
func (b *Base) GetID() uuid.UUID { return b.ID }
