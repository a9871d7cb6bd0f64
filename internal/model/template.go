package model

import "time"

// Template is a reusable prompt. System catalog entries have no owner and
// IsDefault set; user templates carry their owner's id.
type Template struct {
	ID        uint64    `json:"id"`
	OwnerID   *uint64   `json:"owner_id,omitempty"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Prompt    string    `json:"prompt"`
	Language  string    `json:"language"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID owns t.
func (t *Template) OwnedBy(userID uint64) bool {
	return t.OwnerID != nil && *t.OwnerID == userID
}

// VisibleTo reports whether userID may read and use t.
func (t *Template) VisibleTo(userID uint64) bool {
	return t.IsDefault || t.OwnedBy(userID)
}
