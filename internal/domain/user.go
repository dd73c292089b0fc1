// Package domain contains the core entities of the PromptKeep server.
package domain

import "time"

// User represents an account in the system. Every folder, prompt, and tag
// is owned by exactly one user; nothing is visible across accounts.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialized in API responses
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AvatarColor  string    `json:"avatar_color,omitempty"` // Derived from ID, not stored
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}
