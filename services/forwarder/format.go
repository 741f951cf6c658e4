package forwarder

import (
	"fmt"
	"strings"

	"github.com/burnerpost/burnerpost/interfaces"
)

const (
	// MaxBodyRunes bounds the forwarded body so the rendered notification
	// stays under Telegram's message size limit.
	MaxBodyRunes = 3500

	truncationMarker   = "… [truncated]"
	noSubject          = "(no subject)"
	emptyBody          = "(empty body)"
	htmlOnlyBody       = "(HTML email received; text version not available.)"
	displayTimeLayout  = "2006-01-02 15:04 MST"
	unknownSenderLabel = "unknown"
)

// FormatMessage renders one fetched message as the notification text pushed
// to the tenant. Pure function, no I/O. HTML bodies are never rendered.
func FormatMessage(msg *interfaces.Message) string {
	from := strings.TrimSpace(msg.From)
	if from == "" {
		from = unknownSenderLabel
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = noSubject
	}

	body := strings.TrimSpace(msg.Text)
	switch {
	case body == "" && msg.HasHTML:
		body = htmlOnlyBody
	case body == "":
		body = emptyBody
	default:
		body = truncate(body, MaxBodyRunes)
	}

	var b strings.Builder
	b.WriteString("📩 New email\n\n")
	b.WriteString(fmt.Sprintf("From: %s\n", from))
	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	if !msg.ReceivedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Date: %s\n", msg.ReceivedAt.UTC().Format(displayTimeLayout)))
	}
	b.WriteString("\n")
	b.WriteString(body)
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}
