package interfaces

import (
	"context"
	"time"
)

type DeliveryLedger interface {
	IsDelivered(ctx context.Context, chatID int64, messageID string) (bool, error)
	// MarkDelivered is an idempotent insert; marking the same message twice is
	// never an error.
	MarkDelivered(ctx context.Context, chatID int64, messageID string) error
	PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}
