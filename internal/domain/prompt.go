package domain

import "time"

// Prompt is the core content unit: a titled block of text a user copies to
// the clipboard. CopyCount tracks how many times that has happened; it is
// only ever mutated by the store's atomic increment.
type Prompt struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CopyCount int       `json:"copy_count"`
	PhotoURLs []string  `json:"photo_urls"`
	FolderID  string    `json:"folder_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (p *Prompt) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// PromptWithRelations is a prompt with its folder and tags denormalized,
// the shape the listing and detail endpoints return.
type PromptWithRelations struct {
	Prompt
	Folder *Folder `json:"folder,omitempty"`
	Tags   []*Tag  `json:"tags"`
}

// PromptSort identifies a column prompts may be sorted by.
// Values outside the allow-list fall back to SortByCreatedAt.
type PromptSort string

const (
	// SortByCreatedAt orders prompts by creation time.
	SortByCreatedAt PromptSort = "createdAt"
	// SortByCopyCount orders prompts by clipboard copy count.
	SortByCopyCount PromptSort = "copyCount"
)
