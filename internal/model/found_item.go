package model

import "time"

// FoundItem is a report of something a user has found.
type FoundItem struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	DateFound   time.Time `json:"date_found"`
	IsReturned  bool      `json:"is_returned"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	Username string `json:"username,omitempty"`
}

// IsAvailable reports whether the item has not been handed back yet.
func (i *FoundItem) IsAvailable() bool {
	return !i.IsReturned
}
