package interfaces

import (
	"context"

	"github.com/burnerpost/burnerpost/internal/models"
)

type MailboxService interface {
	// CreateMailbox provisions a fresh provider account with a random address
	// and persists it. It does not set the mailbox active; callers decide.
	CreateMailbox(ctx context.Context, chatID int64) (*models.Mailbox, error)
	Activate(ctx context.Context, chatID int64, mailboxID string) error
	Deactivate(ctx context.Context, chatID int64) error
	Delete(ctx context.Context, chatID int64, mailboxID string) error
	List(ctx context.Context, chatID int64) ([]*models.Mailbox, error)
	GetActive(ctx context.Context, chatID int64) (*models.Mailbox, error)
}

type ForwarderService interface {
	// ForwardCycle runs one poll cycle over all tenants with an active
	// selection. It never returns tenant or message scoped failures; those
	// are logged and retried on the next cycle.
	ForwardCycle(ctx context.Context)
}

// EventsPublisher emits integration events for downstream consumers. A nil
// publisher is valid and means events are disabled.
type EventsPublisher interface {
	PublishEmailForwarded(ctx context.Context, chatID int64, messageID string) error
	Close() error
}
