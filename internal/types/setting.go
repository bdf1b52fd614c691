package types

// Setting is one alerting rule configured from the admin surface.
type Setting struct {
	ID                int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Priority          *int   `gorm:"column:priority" json:"priority,omitempty"`
	ObjectObservation string `gorm:"column:object_observation" json:"objectObservation,omitempty"`
	Camera            string `gorm:"column:camera" json:"camera,omitempty"`
	PrimaryCategory   string `gorm:"column:primary_category" json:"primaryCategory,omitempty"`
	Zone              string `gorm:"column:zone" json:"zone,omitempty"`
	SecondaryCategory string `gorm:"column:secondary_category" json:"secondaryCategory,omitempty"`
	TimeFrom          string `gorm:"column:time_from" json:"timeFrom,omitempty"`
	TimeUntil         string `gorm:"column:time_until" json:"timeUntil,omitempty"`
	EventThreshold    *int   `gorm:"column:event_thresold" json:"eventThreshold,omitempty"`
	Solution          string `gorm:"column:solution" json:"solution,omitempty"`
	CreatedBy         *int   `gorm:"column:created_by" json:"createdBy,omitempty"`
	UpdatedBy         *int   `gorm:"column:updated_by" json:"updatedBy,omitempty"`
}

func (Setting) TableName() string { return "settings" }
