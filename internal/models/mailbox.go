package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/burnerpost/burnerpost/internal/utils"
)

// Mailbox is one disposable email account owned by a chat tenant. Rows are
// immutable after creation; the provider token is issued once and reused for
// the mailbox's lifetime.
type Mailbox struct {
	ID      string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ChatID  int64  `gorm:"column:chat_id;index;not null;uniqueIndex:idx_chat_address,priority:1" json:"chatId"`
	Address string `gorm:"column:address;type:varchar(255);not null;uniqueIndex:idx_chat_address,priority:2" json:"address"`
	// Provider credentials
	Password string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Token    string `gorm:"column:token;type:text;not null" json:"-"`
	// Standard timestamps
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

// TableName sets the table name
func (Mailbox) TableName() string {
	return "mailboxes"
}

func (m *Mailbox) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("mbox", 16)
	}
	return nil
}
