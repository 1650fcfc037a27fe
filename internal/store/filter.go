package store

import (
	"strings"
	"time"
)

// DefaultPageSize is used when a listing is requested without a limit.
const DefaultPageSize = 10

// MaxPageSize caps the limit of a single listing page.
const MaxPageSize = 100

// ReportFilter narrows lost and found report listings. Zero fields are ignored.
type ReportFilter struct {
	Category string
	Location string // case-insensitive substring
	Query    string // case-insensitive substring of title or description
	From     *time.Time
	To       *time.Time
}

// where builds SQL conditions for the filter against table alias a, using
// dateCol as the report's lost/found date column.
func (f ReportFilter) where(a, dateCol string) ([]string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, a+".category = ?")
		args = append(args, f.Category)
	}
	if f.Location != "" {
		conds = append(conds, a+".location LIKE ? ESCAPE '\\'")
		args = append(args, likePattern(f.Location))
	}
	if f.Query != "" {
		conds = append(conds, "("+a+".title LIKE ? ESCAPE '\\' OR "+a+".description LIKE ? ESCAPE '\\')")
		p := likePattern(f.Query)
		args = append(args, p, p)
	}
	if f.From != nil {
		conds = append(conds, a+"."+dateCol+" >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conds = append(conds, a+"."+dateCol+" <= ?")
		args = append(args, f.To.UTC())
	}
	return conds, args
}

// likePattern wraps s for a substring LIKE match, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// normalizePage clamps page and limit to sane values and returns the row offset.
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

type scanner interface {
	Scan(dest ...any) error
}
