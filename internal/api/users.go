package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// UsersHandler handles profile endpoints and admin account management.
type UsersHandler struct {
	DB *sql.DB
}

type updateContactRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// MyLost handles GET /api/users/me/lost.
func (h *UsersHandler) MyLost(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListLostItemsByUser(r.Context(), h.DB, GetClaims(r.Context()).UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list lost items")
		return
	}
	if items == nil {
		items = []model.LostItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// MyFound handles GET /api/users/me/found.
func (h *UsersHandler) MyFound(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFoundItemsByUser(r.Context(), h.DB, GetClaims(r.Context()).UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list found items")
		return
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// UpdateContact handles PUT /api/users/me.
func (h *UsersHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := store.UpdateUserContact(r.Context(), h.DB, claims.UserID, req.Email, req.Phone); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update contact details")
		return
	}

	user, _ := store.GetUser(r.Context(), h.DB, claims.UserID)
	jsonResponse(w, http.StatusOK, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}. Reports of deleted users are kept.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	if id == claims.UserID {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete user", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	slog.Info("user deleted", "user", user.Username, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
