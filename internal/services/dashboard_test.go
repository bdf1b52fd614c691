package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/types"
)

func TestDurationWindow(t *testing.T) {
	// A Wednesday, mid-afternoon.
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		duration  string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			duration:  DurationDaily,
			wantStart: time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
			wantEnd:   now,
		},
		{
			duration:  DurationWeekly,
			wantStart: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			duration:  DurationMonthly,
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			duration:  DurationYearly,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
	}
	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			start, end, err := durationWindow(tt.duration, now)
			if err != nil {
				t.Fatalf("durationWindow(%q): %v", tt.duration, err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}

	if _, _, err := durationWindow("fortnightly", now); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown duration: got %v, want ErrValidation", err)
	}
	if _, _, err := durationWindow("", now); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty duration: got %v, want ErrValidation", err)
	}
}

func TestFoldStatus(t *testing.T) {
	resolved := boolPtr(true)
	open := boolPtr(false)

	rows := []repos.StatusCount{
		{Status: resolved, Count: 3},
		{Status: open, Count: 2},
		{Status: nil, Count: 1},
	}
	buckets := foldStatus(rows, BucketManualViolations, BucketAIViolations)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	if buckets[0].Status != BucketManualViolations || buckets[0].Count != 3 {
		t.Errorf("manual bucket = %+v, want {%s 3}", buckets[0], BucketManualViolations)
	}
	// Null and false statuses fold into one bucket.
	if buckets[1].Status != BucketAIViolations || buckets[1].Count != 3 {
		t.Errorf("ai bucket = %+v, want {%s 3}", buckets[1], BucketAIViolations)
	}

	onlyTrue := foldStatus([]repos.StatusCount{{Status: resolved, Count: 5}}, BucketClosed, BucketPending)
	if len(onlyTrue) != 1 || onlyTrue[0].Status != BucketClosed {
		t.Errorf("single-sided fold = %+v, want only %q", onlyTrue, BucketClosed)
	}

	if got := foldStatus(nil, BucketClosed, BucketPending); len(got) != 0 {
		t.Errorf("empty fold = %+v, want no buckets", got)
	}
}

func TestActionTakenFoldsMasterDataStatuses(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewDashboardService(db, log, repos.NewMasterDataRepo(db, log), repos.NewDashboardRepo(db, log), nil)

	seed := []*types.MasterData{
		{ID: 1, Status: boolPtr(true), DetectionPayload: types.DetectionPayload{BoardID: "board-1"}},
		{ID: 2, Status: boolPtr(true), DetectionPayload: types.DetectionPayload{BoardID: "board-1"}},
		{ID: 3, Status: boolPtr(false), DetectionPayload: types.DetectionPayload{BoardID: "board-1"}},
		{ID: 4, DetectionPayload: types.DetectionPayload{BoardID: "board-1"}},
		{ID: 5, Status: boolPtr(true), DetectionPayload: types.DetectionPayload{BoardID: "board-2"}},
	}
	for _, m := range seed {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed master data: %v", err)
		}
	}

	buckets, err := svc.ActionTaken(context.Background(), "board-1")
	if err != nil {
		t.Fatalf("action taken: %v", err)
	}
	got := map[string]int64{}
	for _, b := range buckets {
		got[b.Status] = b.Count
	}
	if got[BucketManualViolations] != 2 {
		t.Errorf("manual = %d, want 2", got[BucketManualViolations])
	}
	if got[BucketAIViolations] != 2 {
		t.Errorf("ai = %d, want 2 (false and null merged)", got[BucketAIViolations])
	}
}

func TestViolationsByStatusRejectsBadDuration(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewDashboardService(db, log, repos.NewMasterDataRepo(db, log), repos.NewDashboardRepo(db, log), nil)

	if _, err := svc.ViolationsByStatus(context.Background(), "hourly", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestCategoryTotalsRequiresDate(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewDashboardService(db, log, repos.NewMasterDataRepo(db, log), repos.NewDashboardRepo(db, log), nil)

	if _, err := svc.CategoryTotals(context.Background(), "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty date: got %v, want ErrValidation", err)
	}
	if _, err := svc.CategoryTotals(context.Background(), "13-03-2024", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("malformed date: got %v, want ErrValidation", err)
	}
}
