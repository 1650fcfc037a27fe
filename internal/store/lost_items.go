package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

const lostColumns = `l.id, l.user_id, l.category, l.title, l.description, l.location,
	l.date_lost, l.status, l.image_mime, l.created_at, l.updated_at, COALESCE(u.username, '')`

const lostFrom = ` FROM lost_items l LEFT JOIN users u ON u.id = l.user_id`

func scanLostItem(s scanner) (*model.LostItem, error) {
	item := &model.LostItem{}
	var description, imageMime sql.NullString
	err := s.Scan(&item.ID, &item.UserID, &item.Category, &item.Title, &description, &item.Location,
		&item.DateLost, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt, &item.Username)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageMime = imageMime.String
	return item, nil
}

func queryLostItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.LostItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lost items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		item, err := scanLostItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lost item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CreateLostItem stores a new open lost report owned by item.UserID.
func CreateLostItem(ctx context.Context, db *sql.DB, item *model.LostItem) (*model.LostItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lost_items (user_id, category, title, description, location, date_lost)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.UserID, item.Category, item.Title, item.Description, item.Location, item.DateLost.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost item id: %w", err)
	}

	return GetLostItem(ctx, db, id)
}

// GetLostItem returns a lost report by ID, or nil if it does not exist.
func GetLostItem(ctx context.Context, db *sql.DB, id int64) (*model.LostItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+lostColumns+lostFrom+` WHERE l.id = ?`, id)
	item, err := scanLostItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost item: %w", err)
	}
	return item, nil
}

// ListLostItems returns one page of lost reports, newest first. An empty
// status lists open reports only.
func ListLostItems(ctx context.Context, db *sql.DB, f ReportFilter, status string, page, limit int) ([]model.LostItem, model.Pagination, error) {
	if status == "" {
		status = model.LostStatusOpen
	}
	page, limit, offset := normalizePage(page, limit)

	conds, args := f.where("l", "date_lost")
	conds = append(conds, "l.status = ?")
	args = append(args, status)
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lost_items l`+where, args...).Scan(&total)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("counting lost items: %w", err)
	}

	items, err := queryLostItems(ctx, db,
		`SELECT `+lostColumns+lostFrom+where+` ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.NewPagination(page, limit, total), nil
}

// ListLostItemsByUser returns every lost report owned by userID, newest first.
func ListLostItemsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.LostItem, error) {
	return queryLostItems(ctx, db,
		`SELECT `+lostColumns+lostFrom+` WHERE l.user_id = ? ORDER BY l.created_at DESC, l.id DESC`, userID,
	)
}

// ListOpenLostItems returns open lost reports in insertion order. A positive
// max caps the number returned.
func ListOpenLostItems(ctx context.Context, db *sql.DB, max int) ([]model.LostItem, error) {
	query := `SELECT ` + lostColumns + lostFrom + ` WHERE l.status = ? ORDER BY l.id`
	args := []any{model.LostStatusOpen}
	if max > 0 {
		query += ` LIMIT ?`
		args = append(args, max)
	}
	return queryLostItems(ctx, db, query, args...)
}

// UpdateLostItem updates the descriptive fields of a lost report. Only the
// owner's rows are touched; the result reports whether a row changed.
func UpdateLostItem(ctx context.Context, db *sql.DB, item *model.LostItem) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_items SET category = ?, title = ?, description = ?, location = ?, date_lost = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		item.Category, item.Title, item.Description, item.Location, item.DateLost.UTC(), item.ID, item.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("updating lost item: %w", err)
	}
	return affected(result)
}

// SetLostItemStatus changes the status of an owner's lost report.
func SetLostItemStatus(ctx context.Context, db *sql.DB, id, userID int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		status, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("setting lost item status: %w", err)
	}
	return affected(result)
}

// DeleteLostItem removes an owner's lost report.
func DeleteLostItem(ctx context.Context, db *sql.DB, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM lost_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting lost item: %w", err)
	}
	return affected(result)
}

// SetLostItemImage sets the photo of an owner's lost report.
func SetLostItemImage(ctx context.Context, db *sql.DB, id, userID int64, image []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		image, mime, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("setting lost item image: %w", err)
	}
	return affected(result)
}

// GetLostItemImage returns a lost report's photo and MIME type.
func GetLostItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM lost_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting lost item image: %w", err)
	}
	return image, mime.String, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}
	return n > 0, nil
}
