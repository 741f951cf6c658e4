package interfaces

import (
	"context"
	"time"
)

// MessageSummary is one entry of the provider's message listing, newest first
// per provider convention.
type MessageSummary struct {
	ID      string
	From    string
	Subject string
}

// Message is a fully fetched provider message.
type Message struct {
	ID         string
	From       string
	Subject    string
	ReceivedAt time.Time
	Text       string
	HasHTML    bool
}

// ProviderClient talks to the external disposable-mail service. It is
// unreliable and rate-sensitive; callers treat every failure as cycle-scoped.
type ProviderClient interface {
	ListActiveDomain(ctx context.Context) (string, error)
	// CreateAccount returns the committed address, which may differ from the
	// requested one in casing. ErrAddressTaken signals the caller to retry
	// with a fresh local part.
	CreateAccount(ctx context.Context, address, password string) (string, error)
	ObtainToken(ctx context.Context, address, password string) (string, error)
	ListMessageSummaries(ctx context.Context, token string) ([]MessageSummary, error)
	ReadMessage(ctx context.Context, token, messageID string) (*Message, error)
}
