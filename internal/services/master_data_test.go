package services

import (
	"context"
	"testing"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/types"
)

func TestListWorklist(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewMasterDataService(db, log, repos.NewMasterDataRepo(db, log))

	resolved := boolPtr(true)
	seed := []*types.MasterData{
		{ID: 1, DetectionPayload: types.DetectionPayload{BoardID: "board-1", Time: "07:10:00", Summary: "no helmet near crane"}},
		{ID: 2, DetectionPayload: types.DetectionPayload{BoardID: "board-1", Time: "22:45:00", Summary: "restricted zone entry"}},
		{ID: 3, Status: resolved, DetectionPayload: types.DetectionPayload{BoardID: "board-1", Time: "08:00:00", Summary: "resolved event"}},
	}
	for _, m := range seed {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed master data: %v", err)
		}
	}
	// Partial classification on event 1 only.
	partial := &types.Violation{MasterDataID: intPtr(1), SiteID: intPtr(4), Severity: types.SeverityMinor}
	if err := db.Create(partial).Error; err != nil {
		t.Fatalf("seed violation: %v", err)
	}

	page := filters.Page{Page: 1, Limit: 10}

	items, total, err := svc.ListWorklist(context.Background(), WorklistParams{Page: page})
	if err != nil {
		t.Fatalf("list worklist: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("worklist total=%d len=%d, want unresolved rows only", total, len(items))
	}
	// Newest first; event 1 carries its partial classification.
	if items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("order = [%d %d], want [2 1]", items[0].ID, items[1].ID)
	}
	if items[1].ViolationID == nil || items[1].SiteID == nil || *items[1].SiteID != 4 {
		t.Fatalf("partial classification not joined: %+v", items[1])
	}
	if items[0].ViolationID != nil {
		t.Fatal("unclassified event should have no violation fields")
	}

	day, _, err := svc.ListWorklist(context.Background(), WorklistParams{Shift: filters.ShiftDay, Page: page})
	if err != nil {
		t.Fatalf("day shift: %v", err)
	}
	if len(day) != 1 || day[0].ID != 1 {
		t.Fatalf("day shift = %+v, want only the 07:10 event", day)
	}

	night, _, err := svc.ListWorklist(context.Background(), WorklistParams{Shift: filters.ShiftNight, Page: page})
	if err != nil {
		t.Fatalf("night shift: %v", err)
	}
	if len(night) != 1 || night[0].ID != 2 {
		t.Fatalf("night shift = %+v, want only the 22:45 event", night)
	}

	search, _, err := svc.ListWorklist(context.Background(), WorklistParams{Search: "helmet", Page: page})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(search) != 1 || search[0].ID != 1 {
		t.Fatalf("search = %+v, want the helmet event", search)
	}
}
