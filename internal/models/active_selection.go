package models

import (
	"time"
)

// ActiveSelection designates the single mailbox currently receiving
// auto-forwarded notifications for a tenant. At most one row per chat;
// last writer wins.
type ActiveSelection struct {
	ChatID    int64     `gorm:"column:chat_id;primaryKey" json:"chatId"`
	MailboxID string    `gorm:"column:mailbox_id;type:varchar(50);not null;index" json:"mailboxId"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (ActiveSelection) TableName() string {
	return "active_selections"
}
