package types

// Site is a physical location with detection hardware. BoardID joins a
// site to the events its boards report.
type Site struct {
	ID                int     `gorm:"column:id;primaryKey" json:"id"`
	Name              string  `gorm:"column:name;not null" json:"name"`
	Longitude         string  `gorm:"column:longitude" json:"longitude,omitempty"`
	Latitude          string  `gorm:"column:latitude" json:"latitude,omitempty"`
	RPM               float64 `gorm:"column:rpm" json:"rpm,omitempty"`
	StandPipePressure float64 `gorm:"column:stand_pipe_pressure" json:"stand_pipe_pressure,omitempty"`
	BoardID           string  `gorm:"column:board_id" json:"boardID,omitempty"`
	LiveView          string  `gorm:"column:live_view" json:"liveView,omitempty"`
	Enabled           *bool   `gorm:"column:enabled" json:"enabled"`
	CreatedBy         *int    `gorm:"column:createdBy" json:"createdBy,omitempty"`
	UpdatedBy         *int    `gorm:"column:updatedBy" json:"updatedBy,omitempty"`
}

func (Site) TableName() string { return "sites" }
