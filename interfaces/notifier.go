package interfaces

import "context"

// NotificationSink pushes formatted text to a chat tenant. Transient failures
// return ErrDeliveryFailed wrapped with the transport detail.
type NotificationSink interface {
	SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error
}
