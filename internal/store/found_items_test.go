package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestCreateAndGetFoundItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := mustUser(t, database, "bor")

	item, err := CreateFoundItem(ctx, database, &model.FoundItem{
		UserID:    finder.ID,
		Category:  model.CategoryElectronics,
		Title:     "iPhone found",
		Location:  "Gym parking lot",
		DateFound: testDay,
	})
	if err != nil {
		t.Fatalf("CreateFoundItem: %v", err)
	}
	if item.IsReturned {
		t.Error("expected new found item not to be returned")
	}
	if !item.DateFound.Equal(testDay) {
		t.Errorf("expected date_found %v, got %v", testDay, item.DateFound)
	}
}

func TestListFoundItemsReturnedFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := mustUser(t, database, "bor")

	mustFound(t, database, finder.ID, model.CategoryKeys, "Keys on ring", "Main street", testDay)
	returned := mustFound(t, database, finder.ID, model.CategoryKeys, "Car key", "Airport", testDay)
	SetFoundItemReturned(ctx, database, returned.ID, finder.ID, true)

	available, page, err := ListFoundItems(ctx, database, ReportFilter{}, nil, 1, 10)
	if err != nil {
		t.Fatalf("ListFoundItems: %v", err)
	}
	if len(available) != 1 || page.Total != 1 {
		t.Errorf("expected 1 available item, got %d (total %d)", len(available), page.Total)
	}

	handedBack, _, _ := ListFoundItems(ctx, database, ReportFilter{}, ptr(true), 1, 10)
	if len(handedBack) != 1 || !handedBack[0].IsReturned {
		t.Errorf("expected 1 returned item, got %+v", handedBack)
	}
}

func TestListAvailableFoundItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := mustUser(t, database, "bor")

	a := mustFound(t, database, finder.ID, model.CategoryOther, "Umbrella", "Bus", testDay)
	b := mustFound(t, database, finder.ID, model.CategoryOther, "Scarf", "Bus", testDay)
	c := mustFound(t, database, finder.ID, model.CategoryOther, "Glove", "Bus", testDay)
	SetFoundItemReturned(ctx, database, b.ID, finder.ID, true)

	items, err := ListAvailableFoundItems(ctx, database, 0)
	if err != nil {
		t.Fatalf("ListAvailableFoundItems: %v", err)
	}
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != c.ID {
		t.Errorf("expected available items in insertion order, got %+v", items)
	}
}

func TestFoundItemsByUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	bor := mustUser(t, database, "bor")
	cene := mustUser(t, database, "cene")

	mustFound(t, database, bor.ID, model.CategoryPets, "Grey cat", "Harbour", testDay)
	mustFound(t, database, cene.ID, model.CategoryPets, "Dog", "Park", testDay)

	items, err := ListFoundItemsByUser(ctx, database, bor.ID)
	if err != nil {
		t.Fatalf("ListFoundItemsByUser: %v", err)
	}
	if len(items) != 1 || items[0].UserID != bor.ID {
		t.Errorf("expected only bor's item, got %+v", items)
	}
}

func TestFoundItemOwnership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	finder := mustUser(t, database, "bor")
	other := mustUser(t, database, "cene")
	item := mustFound(t, database, finder.ID, model.CategoryBags, "Backpack", "Library", testDay)

	if ok, _ := SetFoundItemReturned(ctx, database, item.ID, other.ID, true); ok {
		t.Error("expected non-owner return to change nothing")
	}
	if ok, _ := SetFoundItemReturned(ctx, database, item.ID, finder.ID, true); !ok {
		t.Error("expected owner return to succeed")
	}
	got, _ := GetFoundItem(ctx, database, item.ID)
	if !got.IsReturned {
		t.Error("expected found item to be returned")
	}

	if ok, _ := DeleteFoundItem(ctx, database, item.ID, finder.ID); !ok {
		t.Error("expected owner delete to succeed")
	}
}
