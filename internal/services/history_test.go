package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/types"
)

func newHistoryFixture(t *testing.T) (HistoryService, repos.HistoryRepo) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger(t)
	repo := repos.NewHistoryRepo(db, log)
	return NewHistoryService(db, log, repo), repo
}

func TestHistoryListFlattensSnapshots(t *testing.T) {
	svc, repo := newHistoryFixture(t)
	ctx := context.Background()

	blob, err := types.NewViolationSnapshot(&types.Violation{
		ID:       42,
		Severity: types.SeverityModerate,
		Activity: "Scaffolding",
	})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	entry := &types.History{
		Type:      types.HistoryTypeViolation,
		TypeID:    42,
		Data:      blob,
		CreatedBy: intPtr(7),
	}
	if _, err := repo.Create(ctx, nil, entry); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	rows, err := svc.List(ctx, types.HistoryTypeViolation, 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]

	if row["type"] != types.HistoryTypeViolation {
		t.Errorf("type = %v", row["type"])
	}
	if row["severity"] != types.SeverityModerate {
		t.Errorf("severity = %v, want flattened snapshot field", row["severity"])
	}
	if row["activity"] != "Scaffolding" {
		t.Errorf("activity = %v", row["activity"])
	}
	// The history row's own id must win over the snapshot's violation id.
	if row["id"] != entry.ID {
		t.Errorf("id = %v, want history row id %d", row["id"], entry.ID)
	}
}

func TestHistoryListKeepsMalformedRows(t *testing.T) {
	svc, repo := newHistoryFixture(t)
	ctx := context.Background()

	good, err := types.NewViolationSnapshot(&types.Violation{ID: 9, Severity: types.SeverityMinor})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	entries := []*types.History{
		{Type: types.HistoryTypeViolation, TypeID: 9, Data: good},
		{Type: types.HistoryTypeViolation, TypeID: 9, Data: datatypes.JSON(`{"not":"an envelope"}`)},
		{Type: types.HistoryTypeViolation, TypeID: 9},
	}
	for _, e := range entries {
		if _, err := repo.Create(ctx, nil, e); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}

	rows, err := svc.List(ctx, types.HistoryTypeViolation, 9)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want all three including malformed", len(rows))
	}
	var withSeverity int
	for _, row := range rows {
		if _, ok := row["severity"]; ok {
			withSeverity++
		}
	}
	if withSeverity != 1 {
		t.Errorf("rows with snapshot fields = %d, want 1", withSeverity)
	}
}

func TestHistoryListValidation(t *testing.T) {
	svc, _ := newHistoryFixture(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, "", 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty type: got %v, want ErrValidation", err)
	}
	if _, err := svc.List(ctx, types.HistoryTypeViolation, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero id: got %v, want ErrValidation", err)
	}
	if _, err := svc.List(ctx, "masterdata", 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown type: got %v, want ErrValidation", err)
	}
	if _, err := svc.List(ctx, types.HistoryTypeViolation, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing trail: got %v, want ErrNotFound", err)
	}
}
