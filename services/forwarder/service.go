package forwarder

import (
	"context"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/models"
	"github.com/burnerpost/burnerpost/internal/repository"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type forwarderService struct {
	provider interfaces.ProviderClient
	sink     interfaces.NotificationSink
	events   interfaces.EventsPublisher
	postgres *repository.Repositories
	log      logger.Logger
}

func NewForwarderService(
	provider interfaces.ProviderClient,
	sink interfaces.NotificationSink,
	events interfaces.EventsPublisher,
	postgres *repository.Repositories,
	log logger.Logger,
) interfaces.ForwarderService {
	return &forwarderService{
		provider: provider,
		sink:     sink,
		events:   events,
		postgres: postgres,
		log:      log,
	}
}

// ForwardCycle runs one poll over every tenant with an active selection.
// Tenants are independent failure domains: a provider stall or error for one
// never aborts the others, and nothing in this loop is fatal to the process.
func (s *forwarderService) ForwardCycle(ctx context.Context) {
	span, ctx := tracing.StartTracerSpan(ctx, "ForwarderService.ForwardCycle")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	selections, err := s.postgres.MailboxRegistry.ListActiveSelections(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to list active selections: %v", err)
		return
	}
	span.LogFields(tracingLog.Int("tenant_count", len(selections)))

	for _, selection := range selections {
		s.forwardTenant(ctx, selection)
	}
}

func (s *forwarderService) forwardTenant(ctx context.Context, selection *models.ActiveSelection) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ForwarderService.forwardTenant")
	defer span.Finish()
	tracing.TagChatID(span, selection.ChatID)

	mailbox, err := s.postgres.MailboxRegistry.GetActive(ctx, selection.ChatID)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Warnf("Skipping chat %d this cycle, credential lookup failed: %v", selection.ChatID, err)
		return
	}
	if mailbox == nil {
		// selection cleared or dangling since enumeration
		return
	}
	tracing.TagMailboxID(span, mailbox.ID)

	summaries, err := s.provider.ListMessageSummaries(ctx, mailbox.Token)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Warnf("Skipping chat %d this cycle, message listing failed: %v", selection.ChatID, err)
		return
	}

	// Dedup gate before any read call, to bound provider load.
	unseen := make([]interfaces.MessageSummary, 0, len(summaries))
	for _, summary := range summaries {
		delivered, err := s.postgres.DeliveryLedger.IsDelivered(ctx, selection.ChatID, summary.ID)
		if err != nil {
			tracing.TraceErr(span, err)
			s.log.Warnf("Skipping chat %d this cycle, ledger lookup failed: %v", selection.ChatID, err)
			return
		}
		if !delivered {
			unseen = append(unseen, summary)
		}
	}
	span.LogFields(tracingLog.Int("unseen_count", len(unseen)))

	// The provider lists newest first; deliver oldest first so the tenant
	// reads the backlog in chronological order.
	for i := len(unseen) - 1; i >= 0; i-- {
		if !s.forwardMessage(ctx, selection.ChatID, mailbox.Token, unseen[i].ID) {
			// The sink is rejecting pushes for this tenant. Stop here so the
			// failed message is retried before anything newer goes out.
			return
		}
	}
}

// forwardMessage fetches, formats, pushes, and commits a single message. The
// ledger is written only after the sink confirmed the push: a message is
// marked seen if and only if it was delivered. The return value is false only
// when the push itself failed.
func (s *forwarderService) forwardMessage(ctx context.Context, chatID int64, token, messageID string) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ForwarderService.forwardMessage")
	defer span.Finish()
	tracing.TagChatID(span, chatID)
	span.LogKV("message_id", messageID)

	msg, err := s.provider.ReadMessage(ctx, token, messageID)
	if err != nil {
		if errors.Is(err, er.ErrMessageNotFound) {
			// retracted upstream between list and read
			s.log.Debugf("Message %s disappeared before read, skipping", messageID)
			return true
		}
		tracing.TraceErr(span, err)
		s.log.Warnf("Failed to read message %s for chat %d, will retry next cycle: %v", messageID, chatID, err)
		return true
	}

	text := FormatMessage(msg)

	if err := s.sink.SendMessage(ctx, chatID, text, false); err != nil {
		tracing.TraceErr(span, err)
		s.log.Warnf("Failed to deliver message %s to chat %d, will retry next cycle: %v", messageID, chatID, err)
		return false
	}

	if err := s.postgres.DeliveryLedger.MarkDelivered(ctx, chatID, messageID); err != nil {
		// Delivered but not committed; the next cycle re-pushes. The ledger
		// insert is idempotent so the retry path stays safe.
		tracing.TraceErr(span, err)
		s.log.Errorf("Delivered message %s to chat %d but failed to mark it: %v", messageID, chatID, err)
		return true
	}

	if s.events != nil {
		if err := s.events.PublishEmailForwarded(ctx, chatID, messageID); err != nil {
			s.log.Warnf("Failed to publish forwarded event for message %s: %v", messageID, err)
		}
	}
	return true
}
