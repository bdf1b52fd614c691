package types

import "time"

// ChatMessage is one exchange with the assistant, persisted after the
// response (or the full stream) completes.
type ChatMessage struct {
	ID        int        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int        `gorm:"column:user_id;not null;index" json:"userId"`
	Query     string     `gorm:"column:query;not null" json:"query"`
	Response  string     `gorm:"column:response;not null" json:"response"`
	CreatedAt *time.Time `gorm:"column:created_at;not null" json:"createdAt,omitempty"`
}

func (ChatMessage) TableName() string { return "chat_history" }
