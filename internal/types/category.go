package types

type Category struct {
	ID        int    `gorm:"column:id;primaryKey" json:"id"`
	Name      string `gorm:"column:name;not null" json:"name"`
	Enabled   *bool  `gorm:"column:enabled" json:"enabled"`
	Color     string `gorm:"column:color" json:"color,omitempty"`
	CreatedBy *int   `gorm:"column:createdBy" json:"createdBy,omitempty"`
	UpdatedBy *int   `gorm:"column:updatedBy" json:"updatedBy,omitempty"`
}

func (Category) TableName() string { return "categories" }
