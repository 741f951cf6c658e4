package utils

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const lowerAlphaNumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateNanoIDWithPrefix produces ids like "mbox-x7x0aq2b3k9d4m1e".
func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, err := gonanoid.Generate(lowerAlphaNumeric, length)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}

// GenerateMailboxLocalPart returns a collision-resistant local part for a new
// disposable address. Local parts are lowercase alphanumeric so they survive
// every provider's address normalization.
func GenerateMailboxLocalPart() string {
	local, err := gonanoid.Generate(lowerAlphaNumeric, 12)
	if err != nil {
		panic(err)
	}
	return local
}
