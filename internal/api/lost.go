package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// LostHandler handles lost report endpoints.
type LostHandler struct {
	DB             *sql.DB
	Images         *imaging.Processor
	MaxUploadBytes int64
}

// List handles GET /api/lost.
func (h *LostHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page, limit, err := listParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != model.LostStatusOpen && status != model.LostStatusResolved {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	items, pagination, err := store.ListLostItems(r.Context(), h.DB, f, status, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list lost items")
		return
	}
	if items == nil {
		items = []model.LostItem{}
	}
	jsonResponse(w, http.StatusOK, listResponse[model.LostItem]{Items: items, Pagination: pagination})
}

// Create handles POST /api/lost.
func (h *LostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req reportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date, _ := parseDate(req.Date)

	item, err := store.CreateLostItem(r.Context(), h.DB, &model.LostItem{
		UserID:      claims.UserID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		DateLost:    date,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create lost item")
		return
	}

	slog.Info("lost item reported", "id", item.ID, "user", claims.Username, "category", item.Category)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/lost/{id}.
func (h *LostHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/lost/{id}.
func (h *LostHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	item.DateLost = date

	if _, err := store.UpdateLostItem(r.Context(), h.DB, item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update lost item")
		return
	}

	updated, _ := store.GetLostItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/lost/{id}.
func (h *LostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if _, err := store.DeleteLostItem(r.Context(), h.DB, item.ID, item.UserID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete lost item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "lost item deleted"})
}

// Resolve handles PUT /api/lost/{id}/resolve. A resolved report no longer
// takes part in matching.
func (h *LostHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if !item.IsOpen() {
		jsonError(w, http.StatusConflict, "lost item already resolved")
		return
	}

	if _, err := store.SetLostItemStatus(r.Context(), h.DB, item.ID, item.UserID, model.LostStatusResolved); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to resolve lost item")
		return
	}

	slog.Info("lost item resolved", "id", item.ID)
	updated, _ := store.GetLostItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// UploadImage handles PUT /api/lost/{id}/image.
func (h *LostHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	photo := readPhoto(w, r, h.Images, h.MaxUploadBytes)
	if photo == nil {
		return
	}

	if _, err := store.SetLostItemImage(r.Context(), h.DB, item.ID, item.UserID, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/lost/{id}/image.
func (h *LostHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "lost item")
	if !ok {
		return
	}

	data, mime, err := store.GetLostItemImage(r.Context(), h.DB, id)
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

func (h *LostHandler) load(w http.ResponseWriter, r *http.Request) (*model.LostItem, bool) {
	id, ok := pathID(w, r, "lost item")
	if !ok {
		return nil, false
	}

	item, err := store.GetLostItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get lost item")
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "lost item not found")
		return nil, false
	}
	return item, true
}

// loadOwned is load restricted to the caller's own reports.
func (h *LostHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*model.LostItem, bool) {
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
