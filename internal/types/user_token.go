package types

import "time"

// UserToken stores the single active bearer token per user; login
// replaces the previous row.
type UserToken struct {
	ID        int        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int        `gorm:"column:user_id;not null;index" json:"user_id"`
	Token     string     `gorm:"column:token;not null" json:"token"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (UserToken) TableName() string { return "user_tokens" }
