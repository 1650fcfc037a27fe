package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/najdeno/internal/model"
)

// Repository exposes report lookups for matching on top of a database.
type Repository struct {
	DB *sql.DB

	// MaxCandidates caps how many eligible reports of each kind are loaded
	// as match candidates. Zero means no cap.
	MaxCandidates int
}

// NewRepository creates a Repository over db.
func NewRepository(db *sql.DB, maxCandidates int) *Repository {
	return &Repository{DB: db, MaxCandidates: maxCandidates}
}

func (r *Repository) GetLostItem(ctx context.Context, id int64) (*model.LostItem, error) {
	return GetLostItem(ctx, r.DB, id)
}

func (r *Repository) GetFoundItem(ctx context.Context, id int64) (*model.FoundItem, error) {
	return GetFoundItem(ctx, r.DB, id)
}

func (r *Repository) OpenLostItems(ctx context.Context) ([]model.LostItem, error) {
	return ListOpenLostItems(ctx, r.DB, r.MaxCandidates)
}

func (r *Repository) AvailableFoundItems(ctx context.Context) ([]model.FoundItem, error) {
	return ListAvailableFoundItems(ctx, r.DB, r.MaxCandidates)
}

func (r *Repository) LostItemsByUser(ctx context.Context, userID int64) ([]model.LostItem, error) {
	return ListLostItemsByUser(ctx, r.DB, userID)
}

func (r *Repository) FoundItemsByUser(ctx context.Context, userID int64) ([]model.FoundItem, error) {
	return ListFoundItemsByUser(ctx, r.DB, userID)
}
