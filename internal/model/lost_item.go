package model

import "time"

// LostItem is a report of something a user has lost.
type LostItem struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	DateLost    time.Time `json:"date_lost"`
	Status      string    `json:"status"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	Username string `json:"username,omitempty"`
}

// Lost item statuses.
const (
	LostStatusOpen     = "open"
	LostStatusResolved = "resolved"
)

// IsOpen reports whether the item can still take part in matching.
func (i *LostItem) IsOpen() bool {
	return i.Status == LostStatusOpen
}
