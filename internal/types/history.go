package types

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	HistoryTypeViolation = "violation"

	// HistorySnapshotVersion tags the snapshot schema written into
	// History.Data so older rows stay readable if the shape changes.
	HistorySnapshotVersion = 1
)

// History is an append-only audit row. Data holds a versioned JSON
// snapshot of the record state before the write that produced this row.
type History struct {
	ID        int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type      string         `gorm:"column:type;index:idx_histories_type_typeid" json:"type"`
	TypeID    int            `gorm:"column:typeid;index:idx_histories_type_typeid" json:"typeId"`
	Data      datatypes.JSON `gorm:"column:data" json:"-"`
	CreatedBy *int           `gorm:"column:created_by" json:"createdBy,omitempty"`
	UpdatedBy *int           `gorm:"column:updated_by" json:"updatedBy,omitempty"`
	CreatedAt *time.Time     `gorm:"column:created_at" json:"createdAt,omitempty"`
}

func (History) TableName() string { return "histories" }

// HistorySnapshot is the envelope serialized into History.Data.
type HistorySnapshot struct {
	Version  int             `json:"version"`
	Type     string          `json:"type"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewViolationSnapshot serializes the given violation state into a tagged
// snapshot blob.
func NewViolationSnapshot(v *Violation) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal violation snapshot: %w", err)
	}
	blob, err := json.Marshal(HistorySnapshot{
		Version:  HistorySnapshotVersion,
		Type:     HistoryTypeViolation,
		Snapshot: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot envelope: %w", err)
	}
	return datatypes.JSON(blob), nil
}

// ParseSnapshot validates and decodes a History.Data blob.
func (h *History) ParseSnapshot() (*HistorySnapshot, error) {
	if len(h.Data) == 0 {
		return nil, fmt.Errorf("history %d has no snapshot data", h.ID)
	}
	var snap HistorySnapshot
	if err := json.Unmarshal(h.Data, &snap); err != nil {
		return nil, fmt.Errorf("decode history %d snapshot: %w", h.ID, err)
	}
	if snap.Version == 0 || snap.Type == "" {
		return nil, fmt.Errorf("history %d snapshot missing version or type", h.ID)
	}
	return &snap, nil
}
