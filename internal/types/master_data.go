package types

import (
	"time"

	"gorm.io/datatypes"
)

// DetectionPayload is everything the on-site board reports for one AI
// detection. MasterData carries the raw copy; Violation gets the same
// columns denormalized at classification time, so both embed it.
type DetectionPayload struct {
	Addition           string         `gorm:"column:addition" json:"addition,omitempty"`
	EventID            string         `gorm:"column:event_id" json:"eventId,omitempty"`
	BoardID            string         `gorm:"column:board_id;index" json:"boardId,omitempty"`
	DataID             int            `gorm:"column:data_id" json:"dataId,omitempty"`
	GbDeviceID         string         `gorm:"column:gb_device_id" json:"gbDeviceId,omitempty"`
	GbTaskChnID        string         `gorm:"column:gb_task_chn_id" json:"gbTaskChnId,omitempty"`
	GpsAngleCourse     float64        `gorm:"column:gps_angle_course" json:"gpsAngleCourse,omitempty"`
	GpsAvailable       bool           `gorm:"column:gps_available" json:"gpsAvailable,omitempty"`
	GpsKSpeed          float64        `gorm:"column:gps_k_speed" json:"gpsKSpeed,omitempty"`
	GpsLatitude        float64        `gorm:"column:gps_latitude" json:"gpsLatitude,omitempty"`
	GpsLatitudeType    string         `gorm:"column:gps_latitude_type" json:"gpsLatitudeType,omitempty"`
	GpsLongitude       float64        `gorm:"column:gps_longitude" json:"gpsLongitude,omitempty"`
	GpsLongitudeType   string         `gorm:"column:gps_longitude_type" json:"gpsLongitudeType,omitempty"`
	GpsNSpeed          float64        `gorm:"column:gps_n_speed" json:"gpsNSpeed,omitempty"`
	GpsUtc             string         `gorm:"column:gps_utc" json:"gpsUtc,omitempty"`
	Camsnap            string         `gorm:"column:camsnap" json:"camsnap,omitempty"`
	LocalLabelPath     string         `gorm:"column:local_label_path" json:"localLabelPath,omitempty"`
	LocalRawPath       string         `gorm:"column:local_raw_path" json:"localRawPath,omitempty"`
	MediaGbTransport   bool           `gorm:"column:media_gb_transport" json:"mediaGbTransport,omitempty"`
	MediaDescription   string         `gorm:"column:media_description" json:"mediaDescription,omitempty"`
	MediaHeight        int            `gorm:"column:media_height" json:"mediaHeight,omitempty"`
	MediaName          string         `gorm:"column:media_name" json:"mediaName,omitempty"`
	MediaURL           string         `gorm:"column:media_url" json:"mediaUrl,omitempty"`
	MediaWidth         int            `gorm:"column:media_width" json:"mediaWidth,omitempty"`
	MediaParams        string         `gorm:"column:media_params" json:"mediaParams,omitempty"`
	MediaRtspTransport bool           `gorm:"column:media_rtsp_transport" json:"mediaRtspTransport,omitempty"`
	Result             datatypes.JSON `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Summary            string         `gorm:"column:summary" json:"summary,omitempty"`
	TaskDesc           string         `gorm:"column:task_desc" json:"taskDesc,omitempty"`
	TaskSession        string         `gorm:"column:task_session" json:"taskSession,omitempty"`
	Time               string         `gorm:"column:time" json:"time,omitempty"`
	TimeStamp          *time.Time     `gorm:"column:time_stamp" json:"timeStamp,omitempty"`
	AlarmType          string         `gorm:"column:alarm_type" json:"alarmType,omitempty"`
	Type               int            `gorm:"column:type" json:"type,omitempty"`
	UniqueID           string         `gorm:"column:unique_id" json:"uniqueId,omitempty"`
	VideoFile          string         `gorm:"column:video_file" json:"videoFile,omitempty"`
	Region             datatypes.JSON `gorm:"column:region;type:jsonb" json:"region,omitempty"`
	Properties         datatypes.JSON `gorm:"column:properties;type:jsonb" json:"properties,omitempty"`
	AssistantRegions   datatypes.JSON `gorm:"column:assistant_regions;type:jsonb" json:"assistantRegions,omitempty"`
	RelativeBox        datatypes.JSON `gorm:"column:relative_box;type:jsonb" json:"relativeBox,omitempty"`
	RegType            string         `gorm:"column:reg_type" json:"regType,omitempty"`
	Cropped            bool           `gorm:"column:cropped" json:"cropped,omitempty"`
	Description        string         `gorm:"column:description" json:"description,omitempty"`
	ImageFile          string         `gorm:"column:image_file" json:"imageFile,omitempty"`
	Checksum           string         `gorm:"column:checksum" json:"checksum,omitempty"`
	BoardIP            string         `gorm:"column:board_ip" json:"boardIp,omitempty"`
}

// MasterData is one raw detection event written by the external ingester.
// This service only ever flips Status to true; rows are never deleted here.
type MasterData struct {
	ID int `gorm:"column:id;primaryKey" json:"id"`
	DetectionPayload
	Status      *bool      `gorm:"column:status" json:"status"`
	CreatedDate *time.Time `gorm:"column:created_date" json:"createdDate,omitempty"`
	UpdatedDate *time.Time `gorm:"column:updated_date" json:"updatedDate,omitempty"`
	UpdatedBy   *int       `gorm:"column:updated_by" json:"updatedBy,omitempty"`
}

func (MasterData) TableName() string { return "masterdata" }
