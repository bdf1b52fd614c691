package types

import (
	"strings"
	"time"
)

const (
	SeverityCatastrophic = "CATASTROPHIC"
	SeverityCritical     = "CRITICAL"
	SeverityModerate     = "MODERATE"
	SeverityMinor        = "MINOR"
	SeverityHazardous    = "HAZARDOUS"

	ViolationStatusPending = "PENDING"
	ViolationStatusClosed  = "CLOSED"
)

func IsValidSeverity(s string) bool {
	switch strings.ToUpper(s) {
	case SeverityCatastrophic, SeverityCritical, SeverityModerate, SeverityMinor, SeverityHazardous:
		return true
	}
	return false
}

func IsValidViolationStatus(s string) bool {
	switch strings.ToUpper(s) {
	case ViolationStatusPending, ViolationStatusClosed:
		return true
	}
	return false
}

// Violation is the human-reviewed counterpart of a MasterData row. The
// unique index on master_data_id is what keeps the upsert race-free.
type Violation struct {
	ID           int  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MasterDataID *int `gorm:"column:master_data_id;uniqueIndex" json:"masterDataId"`
	DetectionPayload
	Status          *bool      `gorm:"column:status" json:"status"`
	CategoryID      *int       `gorm:"column:category_id" json:"categoryId"`
	SiteID          *int       `gorm:"column:site_id" json:"siteId"`
	ZoneID          *int       `gorm:"column:zone_id" json:"zoneId"`
	Comment         string     `gorm:"column:comment" json:"comment,omitempty"`
	File            string     `gorm:"column:file" json:"file,omitempty"`
	AssignedTo      string     `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	ViolationType   string     `gorm:"column:violation_type" json:"violationType,omitempty"`
	Activity        string     `gorm:"column:activity" json:"activity,omitempty"`
	Severity        string     `gorm:"column:severity" json:"severity,omitempty"`
	ViolationStatus string     `gorm:"column:violation_status" json:"violationStatus,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	CreatedDate     *time.Time `gorm:"column:created_date" json:"createdDate,omitempty"`
	UpdatedDate     *time.Time `gorm:"column:updated_date" json:"updatedDate,omitempty"`
	UpdatedBy       *int       `gorm:"column:updated_by" json:"updatedBy,omitempty"`
}

func (Violation) TableName() string { return "violations" }

// Complete reports whether every required classification field is set and
// the review status is past "pending". Only complete records resolve.
func (v *Violation) Complete() bool {
	if v.SiteID == nil || v.ZoneID == nil || v.CategoryID == nil {
		return false
	}
	if v.Severity == "" || v.ViolationType == "" || v.Activity == "" || v.ViolationStatus == "" {
		return false
	}
	return !strings.EqualFold(v.ViolationStatus, ViolationStatusPending)
}

// Resolved reports whether the record has left the review worklist.
func (v *Violation) Resolved() bool {
	return v.Status != nil && *v.Status
}
