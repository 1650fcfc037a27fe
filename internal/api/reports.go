package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// reportRequest is the body of create and update calls for both report kinds.
type reportRequest struct {
	Category    string `json:"category" validate:"required,category"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,date"`
}

type listResponse[T any] struct {
	Items      []T              `json:"items"`
	Pagination model.Pagination `json:"pagination"`
}

// listParams reads the filter and paging query parameters shared by the lost
// and found listings.
func listParams(r *http.Request) (store.ReportFilter, int, int, error) {
	q := r.URL.Query()
	f := store.ReportFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Query:    q.Get("q"),
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"date_from", &f.From}, {"date_to", &f.To}} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			return f, 0, 0, fmt.Errorf("invalid %s", p.key)
		}
		*p.dst = &t
	}

	page, err := optionalInt(q.Get("page"))
	if err != nil {
		return f, 0, 0, errors.New("invalid page")
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		return f, 0, 0, errors.New("invalid limit")
	}
	return f, page, limit, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// readPhoto reads the "image" multipart field and normalizes it. On failure
// it writes the error response and returns nil.
func readPhoto(w http.ResponseWriter, r *http.Request, proc *imaging.Processor, maxBytes int64) *imaging.Photo {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return nil
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return nil
	}
	defer file.Close()

	photo, err := proc.Process(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		jsonError(w, http.StatusUnsupportedMediaType, "image must be JPEG or PNG")
		return nil
	}
	if err != nil {
		slog.Warn("rejected image upload", "error", err, "request_id", RequestID(r.Context()))
		jsonError(w, http.StatusBadRequest, "could not read image")
		return nil
	}
	return photo
}

func writeImage(w http.ResponseWriter, data []byte, mime string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
