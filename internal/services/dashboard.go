package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
)

const (
	DurationDaily   = "daily"
	DurationWeekly  = "weekly"
	DurationMonthly = "monthly"
	DurationYearly  = "yearly"

	// Dashboard bucket labels. A true status means a reviewer closed
	// the record by hand; everything else is still AI-only.
	BucketManualViolations = "Manual Violations"
	BucketAIViolations     = "AI Violations"
	BucketClosed           = "closed"
	BucketPending          = "pending"

	dashboardCacheTTL = 30 * time.Second
)

// StatusBucket is one fold of the raw status group-by.
type StatusBucket struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ReportChartParams is the POST /report-chart body.
type ReportChartParams struct {
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
	Sites      []idRef       `json:"sites"`
	Zones      []idRef       `json:"zones"`
	Types      []typeRef     `json:"types"`
	Activities []activityRef `json:"activities"`
}

type idRef struct {
	ID int `json:"id"`
}

type typeRef struct {
	Type string `json:"type"`
}

type activityRef struct {
	Activity string `json:"activity"`
}

// ReportChart pairs the per-day trend with the per-category breakdown.
type ReportChart struct {
	Tracking []repos.DayCount      `json:"tracking"`
	Category []repos.CategoryCount `json:"category"`
}

// CountParams is the violations/count query.
type CountParams struct {
	StartTime     string
	EndTime       string
	Zones         []string
	Sites         []string
	ViolationType string
	Activities    []string
}

type DashboardService interface {
	ActionTaken(ctx context.Context, boardID string) ([]StatusBucket, error)
	SeverityTotals(ctx context.Context, boardID string) (map[string]int64, error)
	CategoryTotals(ctx context.Context, date, boardID string) (map[string]int64, error)
	ViolationsByStatus(ctx context.Context, duration, boardID string) ([]StatusBucket, error)
	ViolationsBySeverity(ctx context.Context, duration, boardID string) ([]repos.SeverityCount, error)
	ViolationsByActivity(ctx context.Context, duration string) ([]repos.ActivityCount, error)
	CategoryStats(ctx context.Context, params ViolationListParams) ([]repos.CategoryCount, error)
	ViolationCount(ctx context.Context, params CountParams) ([]repos.DayCount, error)
	Report(ctx context.Context, params ReportChartParams) (*ReportChart, error)
}

type dashboardService struct {
	db             *gorm.DB
	log            *logger.Logger
	masterDataRepo repos.MasterDataRepo
	dashboardRepo  repos.DashboardRepo
	cache          *redis.Client
}

// NewDashboardService takes an optional redis client; when nil every
// read goes straight to the store.
func NewDashboardService(db *gorm.DB, log *logger.Logger, masterDataRepo repos.MasterDataRepo, dashboardRepo repos.DashboardRepo, cache *redis.Client) DashboardService {
	return &dashboardService{
		db:             db,
		log:            log.With("service", "DashboardService"),
		masterDataRepo: masterDataRepo,
		dashboardRepo:  dashboardRepo,
		cache:          cache,
	}
}

// durationWindow translates the duration enum into calendar bounds
// relative to now.
func durationWindow(duration string, now time.Time) (time.Time, time.Time, error) {
	switch duration {
	case DurationDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, nil
	case DurationWeekly:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start = start.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond), nil
	case DurationMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
	case DurationYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid or missing 'duration' parameter", ErrValidation)
	}
}

func durationSpecs(duration, column, boardID string, now time.Time) ([]filters.Spec, error) {
	start, end, err := durationWindow(duration, now)
	if err != nil {
		return nil, err
	}
	specs := []filters.Spec{
		filters.DateRange{Column: column, Start: &start, End: &end},
		filters.Equals{Column: "board_id", Value: boardID},
	}
	return specs, nil
}

// foldStatus reduces raw status counts into two buckets, merging null
// and false by summation.
func foldStatus(rows []repos.StatusCount, trueLabel, otherLabel string) []StatusBucket {
	var trueCount, otherCount int64
	var sawTrue, sawOther bool
	for _, row := range rows {
		if row.Status != nil && *row.Status {
			trueCount += row.Count
			sawTrue = true
		} else {
			otherCount += row.Count
			sawOther = true
		}
	}
	buckets := make([]StatusBucket, 0, 2)
	if sawTrue {
		buckets = append(buckets, StatusBucket{Status: trueLabel, Count: trueCount})
	}
	if sawOther {
		buckets = append(buckets, StatusBucket{Status: otherLabel, Count: otherCount})
	}
	return buckets
}

func (ds *dashboardService) ActionTaken(ctx context.Context, boardID string) ([]StatusBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cacheKey := "dashboard:action-taken:" + boardID
	var cached []StatusBucket
	if ds.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := ds.masterDataRepo.CountByStatus(ctx, nil, boardID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	buckets := foldStatus(rows, BucketManualViolations, BucketAIViolations)
	ds.cacheSet(ctx, cacheKey, buckets)
	return buckets, nil
}

func (ds *dashboardService) SeverityTotals(ctx context.Context, boardID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cacheKey := "dashboard:severity:" + boardID
	var cached map[string]int64
	if ds.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := ds.dashboardRepo.SeverityTotals(ctx, nil, boardID)
	if err != nil {
		return nil, fmt.Errorf("severity totals: %w", err)
	}
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Severity == nil {
			continue
		}
		totals[*row.Severity] += row.Total
	}
	ds.cacheSet(ctx, cacheKey, totals)
	return totals, nil
}

func (ds *dashboardService) CategoryTotals(ctx context.Context, date, boardID string) (map[string]int64, error) {
	day := filters.ParseDate(date)
	if day == nil {
		return nil, fmt.Errorf("%w: invalid or missing 'date' parameter, expected YYYY-MM-DD", ErrValidation)
	}
	dayEnd := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.DateRange{Column: "violations.created_date", Start: day, End: &dayEnd},
		filters.Equals{Column: "violations.board_id", Value: boardID},
	}
	rows, err := ds.dashboardRepo.CategoryCounts(ctx, nil, specs)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		name := "Uncategorized"
		if row.CategoryName != nil && *row.CategoryName != "" {
			name = *row.CategoryName
		}
		totals[name] += row.Count
	}
	return totals, nil
}

func (ds *dashboardService) ViolationsByStatus(ctx context.Context, duration, boardID string) ([]StatusBucket, error) {
	specs, err := durationSpecs(duration, "created_date", boardID, time.Now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := ds.dashboardRepo.ViolationsByStatus(ctx, nil, specs)
	if err != nil {
		return nil, fmt.Errorf("violations by status: %w", err)
	}
	return foldStatus(rows, BucketClosed, BucketPending), nil
}

func (ds *dashboardService) ViolationsBySeverity(ctx context.Context, duration, boardID string) ([]repos.SeverityCount, error) {
	specs, err := durationSpecs(duration, "created_date", boardID, time.Now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := ds.dashboardRepo.ViolationsBySeverity(ctx, nil, specs)
	if err != nil {
		return nil, fmt.Errorf("violations by severity: %w", err)
	}
	return rows, nil
}

func (ds *dashboardService) ViolationsByActivity(ctx context.Context, duration string) ([]repos.ActivityCount, error) {
	specs, err := durationSpecs(duration, "created_date", "", time.Now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := ds.dashboardRepo.ViolationsByActivity(ctx, nil, specs)
	if err != nil {
		return nil, fmt.Errorf("violations by activity: %w", err)
	}
	return rows, nil
}

// CategoryStats backs violations/stats: per-category counts under the
// standard list filters.
func (ds *dashboardService) CategoryStats(ctx context.Context, params ViolationListParams) ([]repos.CategoryCount, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.DateRange{Column: "violations.created_date", Start: filters.ParseDate(params.StartDate), End: filters.ParseDate(params.EndDate)},
		filters.MembershipInInts{Column: "violations.zone_id", Values: filters.ParseIDs(params.Zones)},
		filters.MembershipInInts{Column: "violations.site_id", Values: filters.ParseIDs(params.Sites)},
		filters.Equals{Column: "violations.violation_type", Value: params.ViolationType},
		filters.MembershipIn{Column: "violations.activity", Values: params.Activities},
	}
	rows, err := ds.dashboardRepo.CategoryCounts(ctx, nil, specs)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return rows, nil
}

func (ds *dashboardService) ViolationCount(ctx context.Context, params CountParams) ([]repos.DayCount, error) {
	start := filters.ParseDate(params.StartTime)
	end := filters.ParseDate(params.EndTime)
	if start == nil || end == nil {
		return nil, fmt.Errorf("%w: start_time and end_time are required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.DateRange{Column: "created_date", Start: start, End: end},
		filters.MembershipInInts{Column: "zone_id", Values: filters.ParseIDs(params.Zones)},
		filters.MembershipInInts{Column: "site_id", Values: filters.ParseIDs(params.Sites)},
		filters.Equals{Column: "violation_type", Value: params.ViolationType},
		filters.MembershipIn{Column: "activity", Values: params.Activities},
	}
	rows, err := ds.dashboardRepo.ViolationsPerDay(ctx, nil, "created_date", specs)
	if err != nil {
		return nil, fmt.Errorf("violation count: %w", err)
	}
	return rows, nil
}

// Report runs the tracking trend and the category breakdown
// concurrently; both share the same typed filters.
func (ds *dashboardService) Report(ctx context.Context, params ReportChartParams) (*ReportChart, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.DateRange{Column: "violations.created_date", Start: filters.ParseDate(params.StartDate), End: filters.ParseDate(params.EndDate)},
		filters.MembershipInInts{Column: "violations.site_id", Values: refIDs(params.Sites)},
		filters.MembershipInInts{Column: "violations.zone_id", Values: refIDs(params.Zones)},
		filters.MembershipIn{Column: "violations.violation_type", Values: refTypes(params.Types)},
		filters.MembershipIn{Column: "violations.activity", Values: refActivities(params.Activities)},
	}

	report := &ReportChart{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := ds.dashboardRepo.ViolationsPerDay(groupCtx, nil, "violations.created_date", specs)
		if err != nil {
			return fmt.Errorf("report tracking: %w", err)
		}
		report.Tracking = rows
		return nil
	})
	group.Go(func() error {
		rows, err := ds.dashboardRepo.CategoryCounts(groupCtx, nil, specs)
		if err != nil {
			return fmt.Errorf("report categories: %w", err)
		}
		report.Category = rows
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func refIDs(refs []idRef) []int {
	out := make([]int, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func refTypes(refs []typeRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Type)
	}
	return out
}

func refActivities(refs []activityRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Activity)
	}
	return out
}

func (ds *dashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if ds.cache == nil {
		return false
	}
	raw, err := ds.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (ds *dashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if ds.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := ds.cache.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
		ds.log.Debug("Dashboard cache write failed", "key", key, "error", err)
	}
}
