package errors

import "github.com/pkg/errors"

var (
	// provider errors
	ErrNoDomainAvailable   = errors.New("no active provider domain available")
	ErrAddressTaken        = errors.New("address already taken")
	ErrAuthFailed          = errors.New("provider authentication failed")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMessageNotFound     = errors.New("message not found")

	// registry errors
	ErrMailboxNotFound = errors.New("mailbox not found")

	// delivery errors
	ErrDeliveryFailed = errors.New("delivery failed")
)
