package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/types"
)

// LookupService serves the reference tables the classification form and
// filter bars are populated from.
type LookupService interface {
	Categories(ctx context.Context, page filters.Page) ([]*types.Category, int64, error)
	Sites(ctx context.Context, page filters.Page) ([]*repos.SiteRecord, int64, error)
	Zones(ctx context.Context) ([]*types.Zone, error)
	Activities(ctx context.Context, page filters.Page) ([]string, int64, error)
	Types(ctx context.Context, page filters.Page) ([]string, int64, error)
}

type lookupService struct {
	db            *gorm.DB
	log           *logger.Logger
	lookupRepo    repos.LookupRepo
	violationRepo repos.ViolationRepo
}

func NewLookupService(db *gorm.DB, log *logger.Logger, lookupRepo repos.LookupRepo, violationRepo repos.ViolationRepo) LookupService {
	return &lookupService{
		db:            db,
		log:           log.With("service", "LookupService"),
		lookupRepo:    lookupRepo,
		violationRepo: violationRepo,
	}
}

func (ls *lookupService) Categories(ctx context.Context, page filters.Page) ([]*types.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	categories, total, err := ls.lookupRepo.ListCategories(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}

func (ls *lookupService) Sites(ctx context.Context, page filters.Page) ([]*repos.SiteRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	sites, total, err := ls.lookupRepo.ListSites(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list sites: %w", err)
	}
	return sites, total, nil
}

func (ls *lookupService) Zones(ctx context.Context) ([]*types.Zone, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	zones, err := ls.lookupRepo.ListZones(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return zones, nil
}

func (ls *lookupService) Activities(ctx context.Context, page filters.Page) ([]string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	activities, total, err := ls.violationRepo.DistinctActivities(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	return activities, total, nil
}

func (ls *lookupService) Types(ctx context.Context, page filters.Page) ([]string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	violationTypes, total, err := ls.violationRepo.DistinctTypes(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list types: %w", err)
	}
	return violationTypes, total, nil
}
