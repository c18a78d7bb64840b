package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity row. Roles live in two slots mirroring the
// hosted-auth token shape: AppRole is operator-assigned and wins over the
// self-service UserRole.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	AppRole      *string    `gorm:"column:app_role"`
	UserRole     *string    `gorm:"column:user_role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
