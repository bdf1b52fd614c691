package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/types"
)

type HistoryService interface {
	List(ctx context.Context, entryType string, typeID int) ([]map[string]interface{}, error)
}

type historyService struct {
	db          *gorm.DB
	log         *logger.Logger
	historyRepo repos.HistoryRepo
}

func NewHistoryService(db *gorm.DB, log *logger.Logger, historyRepo repos.HistoryRepo) HistoryService {
	return &historyService{
		db:          db,
		log:         log.With("service", "HistoryService"),
		historyRepo: historyRepo,
	}
}

// List returns the audit trail for one record, each snapshot decoded
// and flattened next to the history row's own fields.
func (hs *historyService) List(ctx context.Context, entryType string, typeID int) ([]map[string]interface{}, error) {
	if entryType == "" || typeID == 0 {
		return nil, fmt.Errorf("%w: type and type_id are required", ErrValidation)
	}
	if entryType != types.HistoryTypeViolation {
		return nil, fmt.Errorf("%w: unknown history type %q", ErrValidation, entryType)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	entries, err := hs.historyRepo.ListByTypeAndID(ctx, nil, entryType, typeID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no history for %s %d", ErrNotFound, entryType, typeID)
	}

	flattened := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		row := map[string]interface{}{
			"id":        entry.ID,
			"type":      entry.Type,
			"typeId":    entry.TypeID,
			"createdBy": entry.CreatedBy,
			"updatedBy": entry.UpdatedBy,
			"createdAt": entry.CreatedAt,
		}
		snap, err := entry.ParseSnapshot()
		if err != nil {
			hs.log.Warn("Skipping malformed history snapshot", "history_id", entry.ID, "error", err)
			flattened = append(flattened, row)
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(snap.Snapshot, &fields); err != nil {
			hs.log.Warn("Skipping undecodable history snapshot", "history_id", entry.ID, "error", err)
			flattened = append(flattened, row)
			continue
		}
		for k, v := range fields {
			if _, taken := row[k]; !taken {
				row[k] = v
			}
		}
		flattened = append(flattened, row)
	}
	return flattened, nil
}
