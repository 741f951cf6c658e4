package models

import (
	"time"
)

// SeenMessage records that a provider message was successfully pushed to a
// tenant. A row exists if and only if delivery was confirmed; rows are never
// written on fetch alone.
type SeenMessage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ChatID    int64     `gorm:"column:chat_id;not null;uniqueIndex:idx_chat_message,priority:1" json:"chatId"`
	MessageID string    `gorm:"column:message_id;type:varchar(255);not null;uniqueIndex:idx_chat_message,priority:2" json:"messageId"`
	SeenAt    time.Time `gorm:"column:seen_at;type:timestamp;not null;index" json:"seenAt"`
}

func (SeenMessage) TableName() string {
	return "seen_messages"
}
