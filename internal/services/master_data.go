package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
)

// WorklistParams mirrors the master-data query string.
type WorklistParams struct {
	Search        string
	BoardID       string
	StartDate     string
	EndDate       string
	Sites         []string
	Zones         []string
	ViolationType string
	Activities    []string
	Shift         string
	Page          filters.Page
}

type MasterDataService interface {
	ListWorklist(ctx context.Context, params WorklistParams) ([]*repos.WorklistItem, int64, error)
}

type masterDataService struct {
	db             *gorm.DB
	log            *logger.Logger
	masterDataRepo repos.MasterDataRepo
}

func NewMasterDataService(db *gorm.DB, log *logger.Logger, masterDataRepo repos.MasterDataRepo) MasterDataService {
	return &masterDataService{
		db:             db,
		log:            log.With("service", "MasterDataService"),
		masterDataRepo: masterDataRepo,
	}
}

// ListWorklist pages unresolved detections. Dimension filters on the
// joined violation columns use IN membership across the board.
func (ms *masterDataService) ListWorklist(ctx context.Context, params WorklistParams) ([]*repos.WorklistItem, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	specs := []filters.Spec{
		filters.SubstringMatch{Columns: []string{"masterdata.description", "masterdata.summary"}, Term: params.Search},
		filters.Equals{Column: "masterdata.board_id", Value: params.BoardID},
		filters.DateRange{Column: "masterdata.created_date", Start: filters.ParseDate(params.StartDate), End: filters.ParseDate(params.EndDate)},
		filters.MembershipInInts{Column: "violations.site_id", Values: filters.ParseIDs(params.Sites)},
		filters.MembershipInInts{Column: "violations.zone_id", Values: filters.ParseIDs(params.Zones)},
		filters.Equals{Column: "violations.violation_type", Value: params.ViolationType},
		filters.MembershipIn{Column: "violations.activity", Values: params.Activities},
		filters.TimeOfDayWindow{Column: "masterdata.time", Shift: params.Shift},
	}
	return ms.masterDataRepo.ListWorklist(ctx, nil, specs, params.Page)
}
