package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

func newViolationFixture(t *testing.T) (ViolationService, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	log := testLogger(t)
	masterDataRepo := repos.NewMasterDataRepo(db, log)
	violationRepo := repos.NewViolationRepo(db, log)
	historyRepo := repos.NewHistoryRepo(db, log)
	svc := NewViolationService(db, log, masterDataRepo, violationRepo, historyRepo)

	seed := []*types.MasterData{
		{ID: 1, DetectionPayload: types.DetectionPayload{BoardID: "board-7", Time: "09:15:00", Summary: "person without helmet"}},
		{ID: 2, DetectionPayload: types.DetectionPayload{BoardID: "board-7", Time: "21:40:00", Summary: "person in restricted zone"}},
	}
	for _, m := range seed {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed master data: %v", err)
		}
	}
	return svc, db
}

func reviewerCtx(userID int) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func completeInput(masterDataID int) ClassificationInput {
	return ClassificationInput{
		MasterDataID:    masterDataID,
		SiteID:          intPtr(1),
		ZoneID:          intPtr(2),
		CategoryID:      intPtr(3),
		Severity:        strPtr("critical"),
		ViolationType:   strPtr("PPE"),
		Activity:        strPtr("Welding"),
		ViolationStatus: strPtr("closed"),
	}
}

func TestSubmitClassificationCreatesAndResolves(t *testing.T) {
	svc, db := newViolationFixture(t)

	violation, created, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !created {
		t.Fatal("expected first submission to create")
	}
	if violation.Severity != "CRITICAL" {
		t.Fatalf("severity = %q, want CRITICAL", violation.Severity)
	}
	if !violation.Resolved() {
		t.Fatal("complete classification should resolve the violation")
	}

	var master types.MasterData
	if err := db.First(&master, 1).Error; err != nil {
		t.Fatalf("reload master: %v", err)
	}
	if master.Status == nil || !*master.Status {
		t.Fatal("master data status should flip to resolved")
	}

	var historyCount int64
	if err := db.Model(&types.History{}).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if historyCount != 1 {
		t.Fatalf("history rows = %d, want 1", historyCount)
	}
}

func TestSubmitClassificationIsIdempotentPerMasterID(t *testing.T) {
	svc, db := newViolationFixture(t)

	first, created, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !created {
		t.Fatal("expected create on first submit")
	}

	second, created, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1))
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatal("expected update on second submit")
	}
	if second.ID != first.ID {
		t.Fatalf("second submit touched violation %d, want %d", second.ID, first.ID)
	}

	var violationCount int64
	if err := db.Model(&types.Violation{}).Where("master_data_id = ?", 1).Count(&violationCount).Error; err != nil {
		t.Fatalf("count violations: %v", err)
	}
	if violationCount != 1 {
		t.Fatalf("violations for master 1 = %d, want exactly 1", violationCount)
	}

	var historyCount int64
	if err := db.Model(&types.History{}).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if historyCount != 2 {
		t.Fatalf("history rows = %d, want one per write", historyCount)
	}
}

func TestSubmitClassificationPendingStaysUnresolved(t *testing.T) {
	svc, db := newViolationFixture(t)

	input := completeInput(2)
	input.ViolationStatus = strPtr("pending")

	violation, created, err := svc.SubmitClassification(reviewerCtx(7), input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !created {
		t.Fatal("expected create")
	}
	if violation.Resolved() {
		t.Fatal("pending classification must not resolve")
	}

	var master types.MasterData
	if err := db.First(&master, 2).Error; err != nil {
		t.Fatalf("reload master: %v", err)
	}
	if master.Status != nil && *master.Status {
		t.Fatal("master data must stay unresolved while pending")
	}
}

func TestSubmitClassificationValidation(t *testing.T) {
	svc, _ := newViolationFixture(t)

	_, _, err := svc.SubmitClassification(reviewerCtx(7), ClassificationInput{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing masterDataId: got %v, want ErrValidation", err)
	}

	input := completeInput(1)
	input.Severity = strPtr("EXTREME")
	_, _, err = svc.SubmitClassification(reviewerCtx(7), input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("bad severity: got %v, want ErrValidation", err)
	}

	_, _, err = svc.SubmitClassification(reviewerCtx(7), completeInput(999))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown master id: got %v, want ErrNotFound", err)
	}
}

func TestPatchViolationSnapshotsPriorState(t *testing.T) {
	svc, db := newViolationFixture(t)

	violation, _, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	patch := ClassificationInput{Severity: strPtr("minor")}
	if err := svc.PatchViolation(context.Background(), violation.ID, patch, 9); err != nil {
		t.Fatalf("patch: %v", err)
	}

	var updated types.Violation
	if err := db.First(&updated, violation.ID).Error; err != nil {
		t.Fatalf("reload violation: %v", err)
	}
	if updated.Severity != "MINOR" {
		t.Fatalf("severity = %q, want MINOR", updated.Severity)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != 9 {
		t.Fatalf("updated_by = %v, want 9", updated.UpdatedBy)
	}

	var entries []types.History
	if err := db.Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("history rows = %d, want 2", len(entries))
	}

	snap, err := entries[1].ParseSnapshot()
	if err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	var before types.Violation
	if err := json.Unmarshal(snap.Snapshot, &before); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if before.Severity != "CRITICAL" {
		t.Fatalf("snapshot severity = %q, want pre-patch CRITICAL", before.Severity)
	}
}

func TestMarkReviewedStampsOnce(t *testing.T) {
	svc, db := newViolationFixture(t)

	violation, _, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.MarkReviewed(context.Background(), violation.ID); err != nil {
		t.Fatalf("first mark reviewed: %v", err)
	}
	var afterFirst types.Violation
	if err := db.First(&afterFirst, violation.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if afterFirst.ReviewedAt == nil {
		t.Fatal("reviewed_at not set")
	}

	if err := svc.MarkReviewed(context.Background(), violation.ID); err != nil {
		t.Fatalf("second mark reviewed: %v", err)
	}
	var afterSecond types.Violation
	if err := db.First(&afterSecond, violation.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !afterSecond.ReviewedAt.Equal(*afterFirst.ReviewedAt) {
		t.Fatal("reviewed_at must not change on repeat calls")
	}

	if err := svc.MarkReviewed(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown violation: got %v, want ErrNotFound", err)
	}
}

func TestListResolvedOnlyReturnsResolved(t *testing.T) {
	svc, _ := newViolationFixture(t)

	if _, _, err := svc.SubmitClassification(reviewerCtx(7), completeInput(1)); err != nil {
		t.Fatalf("submit resolved: %v", err)
	}
	pending := completeInput(2)
	pending.ViolationStatus = strPtr("pending")
	if _, _, err := svc.SubmitClassification(reviewerCtx(7), pending); err != nil {
		t.Fatalf("submit pending: %v", err)
	}

	records, total, err := svc.ListResolved(context.Background(), ViolationListParams{
		Page: filters.Page{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("list resolved: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("resolved list total=%d len=%d, want 1/1", total, len(records))
	}
	if records[0].MasterDataID == nil || *records[0].MasterDataID != 1 {
		t.Fatalf("resolved record master id = %v, want 1", records[0].MasterDataID)
	}
}
