package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Spec is one typed predicate. Specs are folded onto a gorm query with
// AND semantics; a spec with nothing to match applies no constraint.
type Spec interface {
	Apply(db *gorm.DB) *gorm.DB
}

// DateRange bounds a timestamp column inclusively on either side.
type DateRange struct {
	Column string
	Start  *time.Time
	End    *time.Time
}

func (f DateRange) Apply(db *gorm.DB) *gorm.DB {
	if f.Start != nil {
		db = db.Where(f.Column+" >= ?", *f.Start)
	}
	if f.End != nil {
		db = db.Where(f.Column+" <= ?", *f.End)
	}
	return db
}

// MembershipIn is an IN test over string values.
type MembershipIn struct {
	Column string
	Values []string
}

func (f MembershipIn) Apply(db *gorm.DB) *gorm.DB {
	if len(f.Values) == 0 {
		return db
	}
	return db.Where(f.Column+" IN ?", f.Values)
}

// MembershipInInts is an IN test over integer ids.
type MembershipInInts struct {
	Column string
	Values []int
}

func (f MembershipInInts) Apply(db *gorm.DB) *gorm.DB {
	if len(f.Values) == 0 {
		return db
	}
	return db.Where(f.Column+" IN ?", f.Values)
}

// SubstringMatch ORs a LIKE %term% test across the given text columns.
type SubstringMatch struct {
	Columns []string
	Term    string
}

func (f SubstringMatch) Apply(db *gorm.DB) *gorm.DB {
	if f.Term == "" || len(f.Columns) == 0 {
		return db
	}
	pattern := "%" + f.Term + "%"
	clauses := make([]string, 0, len(f.Columns))
	args := make([]interface{}, 0, len(f.Columns))
	for _, col := range f.Columns {
		clauses = append(clauses, col+" LIKE ?")
		args = append(args, pattern)
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

// Equals is a plain equality test; skipped when Value is nil.
type Equals struct {
	Column string
	Value  interface{}
}

func (f Equals) Apply(db *gorm.DB) *gorm.DB {
	if f.Value == nil {
		return db
	}
	if s, ok := f.Value.(string); ok && s == "" {
		return db
	}
	return db.Where(f.Column+" = ?", f.Value)
}

const (
	ShiftDay   = "Day Shift"
	ShiftNight = "Night Shift"

	dayShiftStart = "06:00:00"
	dayShiftEnd   = "18:00:00"
)

// TimeOfDayWindow buckets the free-text HH:MM:SS time column into the
// day window [06:00:00, 18:00:00) or its complement. Comparison is
// lexicographic, which is exact for zero-padded clock strings. Any other
// shift value applies no constraint.
type TimeOfDayWindow struct {
	Column string
	Shift  string
}

func (f TimeOfDayWindow) Apply(db *gorm.DB) *gorm.DB {
	switch f.Shift {
	case ShiftDay:
		return db.Where(f.Column+" >= ? AND "+f.Column+" < ?", dayShiftStart, dayShiftEnd)
	case ShiftNight:
		return db.Where(f.Column+" >= ? OR "+f.Column+" < ?", dayShiftEnd, dayShiftStart)
	default:
		return db
	}
}

// MatchesShift is the in-process counterpart of TimeOfDayWindow; both
// implement the same window.
func MatchesShift(clock, shift string) bool {
	switch shift {
	case ShiftDay:
		return clock >= dayShiftStart && clock < dayShiftEnd
	case ShiftNight:
		return clock >= dayShiftEnd || clock < dayShiftStart
	default:
		return true
	}
}

// Apply folds every spec onto the query with AND semantics.
func Apply(db *gorm.DB, specs []Spec) *gorm.DB {
	for _, s := range specs {
		db = s.Apply(db)
	}
	return db
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is a validated pagination window.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}

// ParsePage builds a Page from raw query values. Non-numeric or
// non-positive input falls back to the defaults instead of erroring.
func ParsePage(pageStr, limitStr string) Page {
	page := DefaultPage
	if n, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && n >= 1 {
		page = n
	}
	limit := DefaultLimit
	if n, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil && n >= 1 {
		limit = n
	}
	return Page{Page: page, Limit: limit}
}

// ParseSort maps user-facing sort fields onto columns, falling back to
// id DESC for anything unrecognized.
func ParseSort(sortBy, sortOrder string, allowed map[string]string) string {
	col, ok := allowed[strings.TrimSpace(sortBy)]
	if !ok {
		return "id DESC"
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

// ParseIDs converts repeated query values into ids, dropping anything
// non-numeric.
func ParseIDs(values []string) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// ParseDate accepts ISO dates with or without a time component.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
