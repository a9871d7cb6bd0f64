package model

import "time"

// Content status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Defaults applied to generated content when the request leaves them empty.
const (
	DefaultLanguage = "en"
	DefaultTone     = "professional"
)

// Content is a generated text owned by a user (`contents` table).
type Content struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"owner_id"`
	TemplateID *uint64   `json:"template_id,omitempty"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	Body       string    `json:"body"`
	Language   string    `json:"language"`
	Tone       string    `json:"tone"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is a known content status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished
}
