package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// FoundHandler handles found report endpoints.
type FoundHandler struct {
	DB             *sql.DB
	Images         *imaging.Processor
	MaxUploadBytes int64
}

// List handles GET /api/found.
func (h *FoundHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page, limit, err := listParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var returned *bool
	if v := r.URL.Query().Get("returned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid returned flag")
			return
		}
		returned = &b
	}

	items, pagination, err := store.ListFoundItems(r.Context(), h.DB, f, returned, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list found items")
		return
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	jsonResponse(w, http.StatusOK, listResponse[model.FoundItem]{Items: items, Pagination: pagination})
}

// Create handles POST /api/found.
func (h *FoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req reportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date, _ := parseDate(req.Date)

	item, err := store.CreateFoundItem(r.Context(), h.DB, &model.FoundItem{
		UserID:      claims.UserID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		DateFound:    date,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create found item")
		return
	}

	slog.Info("found item reported", "id", item.ID, "user", claims.Username, "category", item.Category)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/found/{id}.
func (h *FoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/found/{id}.
func (h *FoundHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date, _ := parseDate(req.Date)

	item.Category = req.Category
	item.Title = req.Title
	item.Description = req.Description
	item.Location = req.Location
	item.DateFound = date

	if _, err := store.UpdateFoundItem(r.Context(), h.DB, item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update found item")
		return
	}

	updated, _ := store.GetFoundItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/found/{id}.
func (h *FoundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if _, err := store.DeleteFoundItem(r.Context(), h.DB, item.ID, item.UserID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete found item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "found item deleted"})
}

// Return handles PUT /api/found/{id}/return. A returned report no longer
// takes part in matching.
func (h *FoundHandler) Return(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if !item.IsAvailable() {
		jsonError(w, http.StatusConflict, "found item already returned")
		return
	}

	if _, err := store.SetFoundItemReturned(r.Context(), h.DB, item.ID, item.UserID, true); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to mark found item returned")
		return
	}

	slog.Info("found item returned", "id", item.ID)
	updated, _ := store.GetFoundItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// UploadImage handles PUT /api/found/{id}/image.
func (h *FoundHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	photo := readPhoto(w, r, h.Images, h.MaxUploadBytes)
	if photo == nil {
		return
	}

	if _, err := store.SetFoundItemImage(r.Context(), h.DB, item.ID, item.UserID, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/found/{id}/image.
func (h *FoundHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "found item")
	if !ok {
		return
	}

	data, mime, err := store.GetFoundItemImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	writeImage(w, data, mime)
}

func (h *FoundHandler) load(w http.ResponseWriter, r *http.Request) (*model.FoundItem, bool) {
	id, ok := pathID(w, r, "found item")
	if !ok {
		return nil, false
	}

	item, err := store.GetFoundItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get found item")
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "found item not found")
		return nil, false
	}
	return item, true
}

// loadOwned is load restricted to the caller's own reports.
func (h *FoundHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*model.FoundItem, bool) {
	item, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	if item.UserID != GetClaims(r.Context()).UserID {
		jsonError(w, http.StatusForbidden, "not your report")
		return nil, false
	}
	return item, true
}
