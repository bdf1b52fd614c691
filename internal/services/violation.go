package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

// ClassificationInput is the reviewer's submission for one master-data
// event. Nil pointers mean "leave unchanged" on the update path.
type ClassificationInput struct {
	MasterDataID    int     `json:"masterDataId"`
	SiteID          *int    `json:"siteId"`
	ZoneID          *int    `json:"zoneId"`
	CategoryID      *int    `json:"categoryId"`
	Comment         *string `json:"comment"`
	File            *string `json:"file"`
	AssignedTo      *string `json:"assignedTo"`
	ViolationType   *string `json:"violationType"`
	Severity        *string `json:"severity"`
	Activity        *string `json:"activity"`
	ViolationStatus *string `json:"violationStatus"`
}

// ViolationListParams mirrors the resolved-list query string.
type ViolationListParams struct {
	StartDate     string
	EndDate       string
	Zones         []string
	Sites         []string
	ViolationType string
	Activities    []string
	Shift         string
	SortBy        string
	SortOrder     string
	Page          filters.Page
}

// resolvedSortColumns maps the sort_by query values the list accepts.
var resolvedSortColumns = map[string]string{
	"id":           "violations.id",
	"created_date": "violations.created_date",
	"severity":     "violations.severity",
	"site":         "site_name",
	"category":     "category_name",
}

type ViolationService interface {
	SubmitClassification(ctx context.Context, input ClassificationInput) (*types.Violation, bool, error)
	MarkReviewed(ctx context.Context, violationID int) error
	PatchViolation(ctx context.Context, violationID int, input ClassificationInput, userID int) error
	ListResolved(ctx context.Context, params ViolationListParams) ([]*repos.ViolationRecord, int64, error)
}

type violationService struct {
	db             *gorm.DB
	log            *logger.Logger
	masterDataRepo repos.MasterDataRepo
	violationRepo  repos.ViolationRepo
	historyRepo    repos.HistoryRepo
}

func NewViolationService(db *gorm.DB, log *logger.Logger, masterDataRepo repos.MasterDataRepo, violationRepo repos.ViolationRepo, historyRepo repos.HistoryRepo) ViolationService {
	return &violationService{
		db:             db,
		log:            log.With("service", "ViolationService"),
		masterDataRepo: masterDataRepo,
		violationRepo:  violationRepo,
		historyRepo:    historyRepo,
	}
}

func (vs *violationService) validate(input ClassificationInput) error {
	if input.Severity != nil && *input.Severity != "" && !types.IsValidSeverity(*input.Severity) {
		return fmt.Errorf("%w: unknown severity %q", ErrValidation, *input.Severity)
	}
	if input.ViolationStatus != nil && *input.ViolationStatus != "" && !types.IsValidViolationStatus(*input.ViolationStatus) {
		return fmt.Errorf("%w: unknown violationStatus %q", ErrValidation, *input.ViolationStatus)
	}
	return nil
}

// SubmitClassification creates or updates the violation tied to a
// master-data event. The whole sequence, including the status flips and
// the audit snapshot, runs in one transaction: if the history insert
// fails the classification write rolls back with it.
func (vs *violationService) SubmitClassification(ctx context.Context, input ClassificationInput) (*types.Violation, bool, error) {
	if input.MasterDataID == 0 {
		return nil, false, fmt.Errorf("%w: masterDataId is required", ErrValidation)
	}
	if err := vs.validate(input); err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var (
		result  *types.Violation
		created bool
	)
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		master, err := vs.masterDataRepo.GetByID(ctx, tx, input.MasterDataID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: master data record %d", ErrNotFound, input.MasterDataID)
			}
			return fmt.Errorf("fetch master data: %w", err)
		}

		existing, err := vs.violationRepo.GetByMasterDataID(ctx, tx, input.MasterDataID)
		if err != nil {
			return fmt.Errorf("fetch violation: %w", err)
		}

		var snapshotSource *types.Violation
		if existing == nil {
			violation := &types.Violation{
				MasterDataID:     &input.MasterDataID,
				DetectionPayload: master.DetectionPayload,
				Status:           master.Status,
			}
			applyClassification(violation, input)
			if _, err := vs.violationRepo.Create(ctx, tx, violation); err != nil {
				return fmt.Errorf("create violation: %w", err)
			}
			created = true
			result = violation
			// No prior state exists on insert, so the snapshot is the
			// record as first written.
			snapshotSource = violation
		} else {
			// Pre-update state goes into the audit trail.
			snapshot := *existing
			snapshotSource = &snapshot

			fields := classificationFields(input)
			if err := vs.violationRepo.Update(ctx, tx, existing.ID, fields); err != nil {
				return fmt.Errorf("update violation: %w", err)
			}
			updated, err := vs.violationRepo.GetByID(ctx, tx, existing.ID)
			if err != nil {
				return fmt.Errorf("reload violation: %w", err)
			}
			result = updated
		}

		if result.Complete() {
			if err := vs.masterDataRepo.MarkResolved(ctx, tx, input.MasterDataID); err != nil {
				return fmt.Errorf("mark master data resolved: %w", err)
			}
			if err := vs.violationRepo.MarkResolved(ctx, tx, input.MasterDataID); err != nil {
				return fmt.Errorf("mark violation resolved: %w", err)
			}
			resolved := true
			result.Status = &resolved
		}

		if err := vs.appendHistory(ctx, tx, snapshotSource, requestdata.GetRequestData(ctx)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// MarkReviewed stamps reviewed_at the first time a reviewer opens the
// record; later calls are no-ops.
func (vs *violationService) MarkReviewed(ctx context.Context, violationID int) error {
	if violationID == 0 {
		return fmt.Errorf("%w: violation id is required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := vs.violationRepo.GetByID(ctx, nil, violationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: violation %d", ErrNotFound, violationID)
		}
		return fmt.Errorf("fetch violation: %w", err)
	}
	return vs.violationRepo.SetReviewedAt(ctx, nil, violationID, time.Now())
}

// PatchViolation edits an already-classified record by violation id.
// The audit snapshot is the state before the patch.
func (vs *violationService) PatchViolation(ctx context.Context, violationID int, input ClassificationInput, userID int) error {
	if violationID == 0 {
		return fmt.Errorf("%w: violation id is required", ErrValidation)
	}
	if err := vs.validate(input); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := vs.violationRepo.GetByID(ctx, tx, violationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: violation %d", ErrNotFound, violationID)
			}
			return fmt.Errorf("fetch violation: %w", err)
		}

		snapshot := *existing
		fields := classificationFields(input)
		fields["updated_by"] = userID
		if err := vs.violationRepo.Update(ctx, tx, violationID, fields); err != nil {
			return fmt.Errorf("update violation: %w", err)
		}

		rd := &requestdata.RequestData{UserID: userID}
		return vs.appendHistory(ctx, tx, &snapshot, rd)
	})
}

func (vs *violationService) appendHistory(ctx context.Context, tx *gorm.DB, snapshotSource *types.Violation, rd *requestdata.RequestData) error {
	blob, err := types.NewViolationSnapshot(snapshotSource)
	if err != nil {
		return err
	}
	entry := &types.History{
		Type:   types.HistoryTypeViolation,
		TypeID: snapshotSource.ID,
		Data:   blob,
	}
	if rd != nil && rd.UserID != 0 {
		entry.CreatedBy = &rd.UserID
		entry.UpdatedBy = &rd.UserID
	}
	if _, err := vs.historyRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (vs *violationService) ListResolved(ctx context.Context, params ViolationListParams) ([]*repos.ViolationRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.DateRange{Column: "violations.created_date", Start: filters.ParseDate(params.StartDate), End: filters.ParseDate(params.EndDate)},
		filters.MembershipInInts{Column: "violations.zone_id", Values: filters.ParseIDs(params.Zones)},
		filters.MembershipInInts{Column: "violations.site_id", Values: filters.ParseIDs(params.Sites)},
		filters.Equals{Column: "violations.violation_type", Value: params.ViolationType},
		filters.MembershipIn{Column: "violations.activity", Values: params.Activities},
		filters.TimeOfDayWindow{Column: "violations.time", Shift: params.Shift},
	}
	order := filters.ParseSort(params.SortBy, params.SortOrder, resolvedSortColumns)
	return vs.violationRepo.ListResolved(ctx, nil, specs, order, params.Page)
}

// applyClassification copies submitted fields onto a fresh violation.
func applyClassification(v *types.Violation, input ClassificationInput) {
	if input.SiteID != nil {
		v.SiteID = input.SiteID
	}
	if input.ZoneID != nil {
		v.ZoneID = input.ZoneID
	}
	if input.CategoryID != nil {
		v.CategoryID = input.CategoryID
	}
	if input.Comment != nil {
		v.Comment = *input.Comment
	}
	if input.File != nil {
		v.File = *input.File
	}
	if input.AssignedTo != nil {
		v.AssignedTo = *input.AssignedTo
	}
	if input.ViolationType != nil {
		v.ViolationType = *input.ViolationType
	}
	if input.Severity != nil {
		v.Severity = strings.ToUpper(*input.Severity)
	}
	if input.Activity != nil {
		v.Activity = *input.Activity
	}
	if input.ViolationStatus != nil {
		v.ViolationStatus = *input.ViolationStatus
	}
}

// classificationFields builds the partial-update map; omitted fields
// stay untouched.
func classificationFields(input ClassificationInput) map[string]interface{} {
	fields := map[string]interface{}{}
	if input.SiteID != nil {
		fields["site_id"] = *input.SiteID
	}
	if input.ZoneID != nil {
		fields["zone_id"] = *input.ZoneID
	}
	if input.CategoryID != nil {
		fields["category_id"] = *input.CategoryID
	}
	if input.Comment != nil {
		fields["comment"] = *input.Comment
	}
	if input.File != nil {
		fields["file"] = *input.File
	}
	if input.AssignedTo != nil {
		fields["assigned_to"] = *input.AssignedTo
	}
	if input.ViolationType != nil {
		fields["violation_type"] = *input.ViolationType
	}
	if input.Severity != nil {
		fields["severity"] = strings.ToUpper(*input.Severity)
	}
	if input.Activity != nil {
		fields["activity"] = *input.Activity
	}
	if input.ViolationStatus != nil {
		fields["violation_status"] = *input.ViolationStatus
	}
	return fields
}
