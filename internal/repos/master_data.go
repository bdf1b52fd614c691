package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// WorklistItem is the review-queue projection: an unresolved detection
// left-joined with whatever partial classification already exists.
type WorklistItem struct {
	ID              int     `json:"id"`
	DataID          int     `json:"dataId"`
	MediaURL        string  `gorm:"column:media_url" json:"mediaUrl,omitempty"`
	MediaName       string  `gorm:"column:media_name" json:"mediaName,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	TaskSession     string  `gorm:"column:task_session" json:"taskSession,omitempty"`
	Time            string  `json:"time,omitempty"`
	AlarmType       string  `gorm:"column:alarm_type" json:"alarmType,omitempty"`
	Type            int     `json:"type,omitempty"`
	Status          *bool   `json:"status"`
	RegType         string  `gorm:"column:reg_type" json:"regType,omitempty"`
	Description     string  `json:"description,omitempty"`
	ImageFile       string  `gorm:"column:image_file" json:"imageFile,omitempty"`
	VideoFile       string  `gorm:"column:video_file" json:"videoFile,omitempty"`
	BoardIP         string  `gorm:"column:board_ip" json:"boardIp,omitempty"`
	BoardID         string  `gorm:"column:board_id" json:"boardId,omitempty"`
	SiteID          *int    `gorm:"column:site_id" json:"siteId"`
	CategoryID      *int    `gorm:"column:category_id" json:"categoryId"`
	Severity        *string `json:"severity"`
	ViolationType   *string `gorm:"column:violation_type" json:"violationType"`
	ViolationStatus *string `gorm:"column:violation_status" json:"violationsStatus"`
	AssignedTo      *string `gorm:"column:assigned_to" json:"assignedTo"`
	ZoneID          *int    `gorm:"column:zone_id" json:"zoneId"`
	Comment         *string `json:"comment"`
	ViolationID     *int    `gorm:"column:violation_id" json:"violation_id"`
	Activity        *string `json:"activity"`
}

type MasterDataRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.MasterData, error)
	ListWorklist(ctx context.Context, tx *gorm.DB, specs []filters.Spec, page filters.Page) ([]*WorklistItem, int64, error)
	MarkResolved(ctx context.Context, tx *gorm.DB, id int) error
	CountByStatus(ctx context.Context, tx *gorm.DB, boardID string) ([]StatusCount, error)
}

type masterDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasterDataRepo(db *gorm.DB, baseLog *logger.Logger) MasterDataRepo {
	return &masterDataRepo{db: db, log: baseLog.With("repo", "MasterDataRepo")}
}

func (r *masterDataRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.MasterData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.MasterData
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

const worklistColumns = "masterdata.id, masterdata.data_id, masterdata.media_url, masterdata.media_name, " +
	"masterdata.summary, masterdata.task_session, masterdata.time, masterdata.alarm_type, masterdata.type, " +
	"masterdata.status, masterdata.reg_type, masterdata.description, masterdata.image_file, masterdata.video_file, " +
	"masterdata.board_ip, masterdata.board_id, violations.site_id, violations.category_id, violations.severity, " +
	"violations.violation_type, violations.violation_status, violations.assigned_to, violations.zone_id, " +
	"violations.comment, violations.id AS violation_id, violations.activity"

func (r *masterDataRepo) ListWorklist(ctx context.Context, tx *gorm.DB, specs []filters.Spec, page filters.Page) ([]*WorklistItem, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	base := transaction.WithContext(ctx).
		Model(&types.MasterData{}).
		Joins("LEFT JOIN violations ON violations.master_data_id = masterdata.id").
		Where("masterdata.status IS NULL OR masterdata.status = ?", false)
	base = filters.Apply(base, specs)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("masterdata.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*WorklistItem
	if err := base.
		Select(worklistColumns).
		Order("masterdata.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *masterDataRepo) MarkResolved(ctx context.Context, tx *gorm.DB, id int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	now := time.Now()
	return transaction.WithContext(ctx).
		Model(&types.MasterData{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": true, "updated_date": now}).Error
}

func (r *masterDataRepo) CountByStatus(ctx context.Context, tx *gorm.DB, boardID string) ([]StatusCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.MasterData{}).
		Select("status, COUNT(id) AS count").
		Group("status")
	if boardID != "" {
		query = query.Where("board_id = ?", boardID)
	}

	var rows []StatusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
