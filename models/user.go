package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrator allowed to upload, edit and delete photos.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email        string    `json:"email" db:"email" gorm:"column:email;type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
