package filters

import (
	"testing"
	"time"
)

func TestMatchesShift(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		shift string
		want  bool
	}{
		{"day start inclusive", "06:00:00", ShiftDay, true},
		{"day middle", "12:30:45", ShiftDay, true},
		{"day end exclusive", "18:00:00", ShiftDay, false},
		{"before day start", "05:59:59", ShiftDay, false},
		{"night start inclusive", "18:00:00", ShiftNight, true},
		{"night past midnight", "02:15:00", ShiftNight, true},
		{"night boundary morning", "06:00:00", ShiftNight, false},
		{"unknown shift matches all", "12:00:00", "Afternoon", true},
		{"empty shift matches all", "23:00:00", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesShift(tt.clock, tt.shift); got != tt.want {
				t.Fatalf("MatchesShift(%q, %q) = %v, want %v", tt.clock, tt.shift, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"empty falls back", "", "", 1, 10},
		{"valid values", "3", "25", 3, 25},
		{"zero page falls back", "0", "5", 1, 5},
		{"negative limit falls back", "2", "-1", 2, 10},
		{"garbage falls back", "abc", "xyz", 1, 10},
		{"whitespace tolerated", " 4 ", " 20 ", 4, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(tt.pageStr, tt.limitStr)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Fatalf("ParsePage(%q, %q) = %+v, want page=%d limit=%d", tt.pageStr, tt.limitStr, got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPageOffsetAndTotalPages(t *testing.T) {
	p := Page{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("Offset() = %d, want 20", got)
	}

	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := Page{Page: 1, Limit: tt.limit}
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Fatalf("TotalPages(%d) with limit %d = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{
		"created_date": "violations.created_date",
		"severity":     "violations.severity",
	}
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"known column asc default", "created_date", "", "violations.created_date ASC"},
		{"known column desc", "severity", "desc", "violations.severity DESC"},
		{"desc case insensitive", "severity", "DESC", "violations.severity DESC"},
		{"unknown column falls back", "comment", "asc", "id DESC"},
		{"empty falls back", "", "", "id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSort(tt.sortBy, tt.sortOrder, allowed); got != tt.want {
				t.Fatalf("ParseSort(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs([]string{"1", " 2 ", "x", "", "30"})
	want := []int{1, 2, 30}
	if len(got) != len(want) {
		t.Fatalf("ParseIDs returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseIDs returned %v, want %v", got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if ParseDate("") != nil {
		t.Fatal("expected nil for empty input")
	}
	if ParseDate("not-a-date") != nil {
		t.Fatal("expected nil for garbage input")
	}

	got := ParseDate("2025-03-14")
	if got == nil {
		t.Fatal("expected a parsed date")
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 14 {
		t.Fatalf("ParseDate returned %v", got)
	}

	withTime := ParseDate("2025-03-14T09:30:00Z")
	if withTime == nil || withTime.Hour() != 9 {
		t.Fatalf("ParseDate RFC3339 returned %v", withTime)
	}
}
