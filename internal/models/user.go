package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// AnonymousUserID is used when AUTH_MODE=none
const AnonymousUserID uint = 0

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Name      string         `json:"name"`
	AvatarURL string         `json:"avatar_url"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
}

// Identity returns the user as seen by the identity provider
func (u *User) Identity() Identity {
	return Identity{
		ID:          strconv.FormatUint(uint64(u.ID), 10),
		DisplayName: u.Name,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
	}
}

// Identity is the signed-in user profile supplied by the identity provider.
// The optimization flow never reads it.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
}

// OAuthProvider tracks social login providers
type OAuthProvider struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Provider       string         `gorm:"not null;index" json:"provider"` // "google"
	ProviderUserID string         `gorm:"not null;uniqueIndex:idx_provider_user" json:"provider_user_id"`
}

// UsageLog records one optimization attempt
type UsageLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Model        string    `gorm:"not null" json:"model"`
	TargetModel  string    `json:"target_model"`
	Tone         string    `json:"tone"`
	Complexity   string    `json:"complexity"`
	Original     string    `gorm:"type:text" json:"original"`
	Optimized    string    `gorm:"type:text" json:"optimized"`
	Explanation  string    `gorm:"type:text" json:"explanation"`
	Success      bool      `gorm:"default:false" json:"success"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	TotalTokens  int       `json:"total_tokens"`
	DurationMS   int       `gorm:"not null" json:"duration_ms"`
	RequestID    string    `gorm:"index" json:"request_id"`
}
