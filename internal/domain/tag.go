package domain

import "time"

// TagPaletteSize is the number of entries in the fixed tag color palette.
// Color is an index into the palette; the client owns the actual colors.
const TagPaletteSize = 10

// Tag is a labeled, colored marker owned by one user.
// Names are unique per user, compared case-insensitively.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     int       `json:"color"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeColor clamps the color index into the palette range.
func (t *Tag) NormalizeColor() {
	if t.Color < 0 || t.Color >= TagPaletteSize {
		t.Color = 0
	}
}

// PromptTag links a prompt to a tag. At most one link exists per
// (prompt, tag) pair; adding a duplicate returns the existing link.
type PromptTag struct {
	ID        string    `json:"id"`
	PromptID  string    `json:"prompt_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
