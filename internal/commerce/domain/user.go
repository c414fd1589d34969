package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a root entity. Sessions and the profile are owned (removed with the
// user); orders and authored reviews only reference the user and block deletion
// while they exist.
type User struct {
	Base
	Username       string     `gorm:"size:100;not null;uniqueIndex"`
	Email          string     `gorm:"size:255;not null;uniqueIndex"`
	Bio            *string    `gorm:"size:500"`
	ProfilePicture []byte
	LastLoginAt    *time.Time
	BirthDate      *time.Time
	Metadata       string     `gorm:"type:json"`
	Tags           []string   `gorm:"serializer:json"`
	CreditScore    float64    `gorm:"not null;default:0"`
	Balance        float64    `gorm:"not null;default:0"`
	Status         UserStatus `gorm:"size:20;not null;default:pending"`
	Role           UserRole   `gorm:"size:20;not null;default:user"`

	Profile  *UserProfile    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sessions []UserSession   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Orders   []Order         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Reviews  []ProductReview `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (User) TableName() string { return "users" }

// UserProfile is owned by exactly one user.
type UserProfile struct {
	Base
	UserID      uuid.UUID `gorm:"type:char(36);not null;uniqueIndex"`
	FirstName   string    `gorm:"size:100"`
	LastName    string    `gorm:"size:100"`
	PhoneNumber string    `gorm:"size:20"`
	HomeAddress Address   `gorm:"embedded;embeddedPrefix:home_"`
	WorkAddress Address   `gorm:"embedded;embeddedPrefix:work_"`
	Preferences string    `gorm:"type:json"`
	Skills      []string  `gorm:"serializer:json"`
	Languages   []string  `gorm:"serializer:json"`
}

func (UserProfile) TableName() string { return "user_profiles" }

type UserSession struct {
	Base
	UserID         uuid.UUID     `gorm:"type:char(36);not null;index"`
	SessionToken   string        `gorm:"size:500;not null;uniqueIndex"`
	IPAddress      string        `gorm:"size:45"`
	UserAgent      string        `gorm:"size:500"`
	ExpiresAt      *time.Time
	LastActivityAt *time.Time
	Permissions    []string      `gorm:"serializer:json"`
	Status         SessionStatus `gorm:"size:20;not null;default:active"`
	Type           SessionType   `gorm:"size:20;not null;default:web"`
}

func (UserSession) TableName() string { return "user_sessions" }
