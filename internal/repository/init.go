package repository

import (
	"gorm.io/gorm"

	"github.com/burnerpost/burnerpost/interfaces"
	"github.com/burnerpost/burnerpost/internal/models"
)

type Repositories struct {
	MailboxRegistry interfaces.MailboxRegistry
	DeliveryLedger  interfaces.DeliveryLedger
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		MailboxRegistry: NewMailboxRepository(db),
		DeliveryLedger:  NewSeenMessageRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Mailbox{},
		&models.ActiveSelection{},
		&models.SeenMessage{},
	)
}
