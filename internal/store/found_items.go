package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

const foundColumns = `f.id, f.user_id, f.category, f.title, f.description, f.location,
	f.date_found, f.is_returned, f.image_mime, f.created_at, f.updated_at, COALESCE(u.username, '')`

const foundFrom = ` FROM found_items f LEFT JOIN users u ON u.id = f.user_id`

func scanFoundItem(s scanner) (*model.FoundItem, error) {
	item := &model.FoundItem{}
	var description, imageMime sql.NullString
	err := s.Scan(&item.ID, &item.UserID, &item.Category, &item.Title, &description, &item.Location,
		&item.DateFound, &item.IsReturned, &imageMime, &item.CreatedAt, &item.UpdatedAt, &item.Username)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageMime = imageMime.String
	return item, nil
}

func queryFoundItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.FoundItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing found items: %w", err)
	}
	defer rows.Close()

	var items []model.FoundItem
	for rows.Next() {
		item, err := scanFoundItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CreateFoundItem stores a new unreturned found report owned by item.UserID.
func CreateFoundItem(ctx context.Context, db *sql.DB, item *model.FoundItem) (*model.FoundItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO found_items (user_id, category, title, description, location, date_found)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.UserID, item.Category, item.Title, item.Description, item.Location, item.DateFound.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating found item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting found item id: %w", err)
	}

	return GetFoundItem(ctx, db, id)
}

// GetFoundItem returns a found report by ID, or nil if it does not exist.
func GetFoundItem(ctx context.Context, db *sql.DB, id int64) (*model.FoundItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+foundColumns+foundFrom+` WHERE f.id = ?`, id)
	item, err := scanFoundItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found item: %w", err)
	}
	return item, nil
}

// ListFoundItems returns one page of found reports, newest first. A nil
// returned filter lists unreturned reports only.
func ListFoundItems(ctx context.Context, db *sql.DB, f ReportFilter, returned *bool, page, limit int) ([]model.FoundItem, model.Pagination, error) {
	isReturned := false
	if returned != nil {
		isReturned = *returned
	}
	page, limit, offset := normalizePage(page, limit)

	conds, args := f.where("f", "date_found")
	conds = append(conds, "f.is_returned = ?")
	args = append(args, isReturned)
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM found_items f`+where, args...).Scan(&total)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("counting found items: %w", err)
	}

	items, err := queryFoundItems(ctx, db,
		`SELECT `+foundColumns+foundFrom+where+` ORDER BY f.created_at DESC, f.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.NewPagination(page, limit, total), nil
}

// ListFoundItemsByUser returns every found report owned by userID, newest first.
func ListFoundItemsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.FoundItem, error) {
	return queryFoundItems(ctx, db,
		`SELECT `+foundColumns+foundFrom+` WHERE f.user_id = ? ORDER BY f.created_at DESC, f.id DESC`, userID,
	)
}

// ListAvailableFoundItems returns unreturned found reports in insertion
// order. A positive max caps the number returned.
func ListAvailableFoundItems(ctx context.Context, db *sql.DB, max int) ([]model.FoundItem, error) {
	query := `SELECT ` + foundColumns + foundFrom + ` WHERE f.is_returned = 0 ORDER BY f.id`
	var args []any
	if max > 0 {
		query += ` LIMIT ?`
		args = append(args, max)
	}
	return queryFoundItems(ctx, db, query, args...)
}

// UpdateFoundItem updates the descriptive fields of an owner's found report.
func UpdateFoundItem(ctx context.Context, db *sql.DB, item *model.FoundItem) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET category = ?, title = ?, description = ?, location = ?, date_found = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		item.Category, item.Title, item.Description, item.Location, item.DateFound.UTC(), item.ID, item.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("updating found item: %w", err)
	}
	return affected(result)
}

// SetFoundItemReturned flags whether an owner's found report was handed back.
func SetFoundItemReturned(ctx context.Context, db *sql.DB, id, userID int64, returned bool) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET is_returned = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		returned, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("setting found item returned: %w", err)
	}
	return affected(result)
}

// DeleteFoundItem removes an owner's found report.
func DeleteFoundItem(ctx context.Context, db *sql.DB, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM found_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting found item: %w", err)
	}
	return affected(result)
}

// SetFoundItemImage sets the photo of an owner's found report.
func SetFoundItemImage(ctx context.Context, db *sql.DB, id, userID int64, image []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		image, mime, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("setting found item image: %w", err)
	}
	return affected(result)
}

// GetFoundItemImage returns a found report's photo and MIME type.
func GetFoundItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM found_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting found item image: %w", err)
	}
	return image, mime.String, nil
}
