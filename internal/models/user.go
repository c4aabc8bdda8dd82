package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an AnimeChat account with native email/password auth
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`

	PasswordHash string `gorm:"type:text" json:"-"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HistoryEntry is one past chat interaction. The recommendation core only
// ever reads these; they are written by the chat handler after a resolution.
type HistoryEntry struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	Query      string `gorm:"not null" json:"query"`
	Response   string `gorm:"type:text" json:"response"`
	ImageURL   string `json:"image_url,omitempty"`
	TrailerURL string `json:"trailer_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key. IDs are generated in the
// application so the same models work on postgres and the sqlite test driver.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// Feedback records a like/dislike a user left on a recommended title
type Feedback struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	AnimeTitle string `gorm:"not null" json:"anime_title"`
	Feedback   string `gorm:"not null" json:"feedback"` // "like" or "dislike"

	CreatedAt time.Time `json:"created_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
