package interfaces

import (
	"context"

	"github.com/burnerpost/burnerpost/internal/models"
)

type MailboxRegistry interface {
	// SaveMailbox persists a mailbox. A duplicate (chat, address) pair is a
	// no-op that returns the already persisted row.
	SaveMailbox(ctx context.Context, mailbox *models.Mailbox) (*models.Mailbox, error)
	GetMailbox(ctx context.Context, chatID int64, mailboxID string) (*models.Mailbox, error)
	ListMailboxes(ctx context.Context, chatID int64) ([]*models.Mailbox, error)
	// DeleteMailbox removes the row and, when it was the active selection,
	// clears the selection in the same transaction.
	DeleteMailbox(ctx context.Context, chatID int64, mailboxID string) error

	SetActive(ctx context.Context, chatID int64, mailboxID string) error
	// GetActive returns nil without error when no selection exists or the
	// selection references a mailbox that no longer exists.
	GetActive(ctx context.Context, chatID int64) (*models.Mailbox, error)
	Deactivate(ctx context.Context, chatID int64) error
	ListActiveSelections(ctx context.Context) ([]*models.ActiveSelection, error)
}
