package types

type Client struct {
	ID        int    `gorm:"column:id;primaryKey" json:"id"`
	Name      string `gorm:"column:name;not null" json:"name"`
	Enabled   *bool  `gorm:"column:enabled" json:"enabled"`
	CreatedBy *int   `gorm:"column:createdBy" json:"createdBy,omitempty"`
	UpdatedBy *int   `gorm:"column:updatedBy" json:"updatedBy,omitempty"`
}

func (Client) TableName() string { return "clients" }
