package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateAndGetLostItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item, err := CreateLostItem(ctx, database, &model.LostItem{
		UserID:      owner.ID,
		Category:    model.CategoryElectronics,
		Title:       "Black iPhone 13",
		Description: "cracked corner",
		Location:    "Gym parking lot",
		DateLost:    testDay,
	})
	if err != nil {
		t.Fatalf("CreateLostItem: %v", err)
	}
	if item.Status != model.LostStatusOpen {
		t.Errorf("expected status 'open', got %q", item.Status)
	}
	if !item.DateLost.Equal(testDay) {
		t.Errorf("expected date_lost %v, got %v", testDay, item.DateLost)
	}
	if item.Username != "ana" {
		t.Errorf("expected joined username 'ana', got %q", item.Username)
	}
	if item.Description != "cracked corner" {
		t.Errorf("expected description, got %q", item.Description)
	}

	missing, err := GetLostItem(ctx, database, item.ID+100)
	if err != nil {
		t.Fatalf("GetLostItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing lost item")
	}
}

func TestListLostItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	mustLost(t, database, owner.ID, model.CategoryKeys, "House keys", "Main street", testDay)
	mustLost(t, database, owner.ID, model.CategoryKeys, "Car keys", "Airport", testDay.AddDate(0, 0, 3))
	wallet := mustLost(t, database, owner.ID, model.CategoryAccessories, "Brown wallet", "Main square", testDay.AddDate(0, 0, 6))
	SetLostItemStatus(ctx, database, wallet.ID, owner.ID, model.LostStatusResolved)

	tests := []struct {
		name   string
		filter ReportFilter
		status string
		want   int
	}{
		{"default open only", ReportFilter{}, "", 2},
		{"resolved", ReportFilter{}, model.LostStatusResolved, 1},
		{"category", ReportFilter{Category: model.CategoryKeys}, "", 2},
		{"location substring", ReportFilter{Location: "main"}, "", 1},
		{"query", ReportFilter{Query: "car"}, "", 1},
		{"wildcards are literal", ReportFilter{Query: "%"}, "", 0},
		{"date from", ReportFilter{From: ptr(testDay.AddDate(0, 0, 1))}, "", 1},
		{"date to", ReportFilter{To: ptr(testDay.AddDate(0, 0, 1))}, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, page, err := ListLostItems(ctx, database, tt.filter, tt.status, 1, 10)
			if err != nil {
				t.Fatalf("ListLostItems: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}
			if page.Total != tt.want {
				t.Errorf("expected total %d, got %d", tt.want, page.Total)
			}
		})
	}
}

func TestListLostItemsPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	for i := 0; i < 5; i++ {
		mustLost(t, database, owner.ID, model.CategoryOther, "Umbrella", "Bus", testDay)
	}

	items, page, err := ListLostItems(ctx, database, ReportFilter{}, "", 2, 2)
	if err != nil {
		t.Fatalf("ListLostItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items on page 2, got %d", len(items))
	}
	if page.Pages != 3 || page.Total != 5 || page.Page != 2 {
		t.Errorf("unexpected pagination: %+v", page)
	}
}

func TestListOpenLostItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	first := mustLost(t, database, owner.ID, model.CategoryOther, "First", "Bus", testDay)
	second := mustLost(t, database, owner.ID, model.CategoryOther, "Second", "Bus", testDay)
	third := mustLost(t, database, owner.ID, model.CategoryOther, "Third", "Bus", testDay)
	SetLostItemStatus(ctx, database, second.ID, owner.ID, model.LostStatusResolved)

	items, err := ListOpenLostItems(ctx, database, 0)
	if err != nil {
		t.Fatalf("ListOpenLostItems: %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != third.ID {
		t.Errorf("expected open items in insertion order, got %+v", items)
	}

	capped, _ := ListOpenLostItems(ctx, database, 1)
	if len(capped) != 1 {
		t.Errorf("expected 1 item with cap, got %d", len(capped))
	}
}

func TestLostItemOwnership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")
	other := mustUser(t, database, "bor")

	item := mustLost(t, database, owner.ID, model.CategoryKeys, "Keys", "Park", testDay)

	edit := *item
	edit.UserID = other.ID
	edit.Title = "Stolen title"
	ok, err := UpdateLostItem(ctx, database, &edit)
	if err != nil {
		t.Fatalf("UpdateLostItem: %v", err)
	}
	if ok {
		t.Error("expected update by non-owner to change nothing")
	}

	edit.UserID = owner.ID
	edit.Title = "Spare keys"
	ok, _ = UpdateLostItem(ctx, database, &edit)
	if !ok {
		t.Error("expected update by owner to succeed")
	}
	got, _ := GetLostItem(ctx, database, item.ID)
	if got.Title != "Spare keys" {
		t.Errorf("expected title 'Spare keys', got %q", got.Title)
	}

	if ok, _ := DeleteLostItem(ctx, database, item.ID, other.ID); ok {
		t.Error("expected delete by non-owner to change nothing")
	}
	if ok, _ := DeleteLostItem(ctx, database, item.ID, owner.ID); !ok {
		t.Error("expected delete by owner to succeed")
	}
	if got, _ := GetLostItem(ctx, database, item.ID); got != nil {
		t.Error("expected lost item to be gone after delete")
	}
}

func TestLostItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")
	item := mustLost(t, database, owner.ID, model.CategoryBags, "Backpack", "Library", testDay)

	ok, err := SetLostItemImage(ctx, database, item.ID, owner.ID, []byte("fake image data"), "image/jpeg")
	if err != nil || !ok {
		t.Fatalf("SetLostItemImage: ok=%v err=%v", ok, err)
	}

	data, mime, err := GetLostItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetLostItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
