package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

var testDay = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, &model.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func mustLost(t *testing.T, database *sql.DB, userID int64, category, title, location string, date time.Time) *model.LostItem {
	t.Helper()
	item, err := CreateLostItem(context.Background(), database, &model.LostItem{
		UserID:   userID,
		Category: category,
		Title:    title,
		Location: location,
		DateLost: date,
	})
	if err != nil {
		t.Fatalf("CreateLostItem(%s): %v", title, err)
	}
	return item
}

func mustFound(t *testing.T, database *sql.DB, userID int64, category, title, location string, date time.Time) *model.FoundItem {
	t.Helper()
	item, err := CreateFoundItem(context.Background(), database, &model.FoundItem{
		UserID:    userID,
		Category:  category,
		Title:     title,
		Location:  location,
		DateFound: date,
	})
	if err != nil {
		t.Fatalf("CreateFoundItem(%s): %v", title, err)
	}
	return item
}
