package domain

import "time"

// GeneralFolderName is the name of the protected default folder.
// Every user gets one at signup. It cannot be renamed or deleted, and it is
// the fallback destination for prompts whose folder is deleted.
const GeneralFolderName = "General"

// Folder is a named grouping of prompts owned by a single user.
// Names are unique per user, compared case-insensitively.
type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (f *Folder) Touch() {
	f.UpdatedAt = time.Now().UTC()
}

// IsGeneral reports whether this is the user's protected General folder.
func (f *Folder) IsGeneral() bool {
	return f.Name == GeneralFolderName
}

// FolderWithPrompts is a folder together with its prompts, used by the
// folder detail endpoint.
type FolderWithPrompts struct {
	Folder
	Prompts []*PromptWithRelations `json:"prompts"`
}
