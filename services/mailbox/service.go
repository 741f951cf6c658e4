package mailbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/models"
	"github.com/burnerpost/burnerpost/internal/repository"
	"github.com/burnerpost/burnerpost/internal/tracing"
	"github.com/burnerpost/burnerpost/internal/utils"
)

type mailboxService struct {
	provider interfaces.ProviderClient
	postgres *repository.Repositories
}

func NewMailboxService(provider interfaces.ProviderClient, postgres *repository.Repositories) interfaces.MailboxService {
	return &mailboxService{
		provider: provider,
		postgres: postgres,
	}
}

// CreateMailbox provisions a provider account with a random local part. A
// rejected address is retried exactly once with a fresh local part before the
// failure is surfaced.
func (s *mailboxService) CreateMailbox(ctx context.Context, chatID int64) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.CreateMailbox")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)

	domain, err := s.provider.ListActiveDomain(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	password := uuid.New().String()
	address := fmt.Sprintf("%s@%s", utils.GenerateMailboxLocalPart(), domain)

	committed, err := s.provider.CreateAccount(ctx, address, password)
	if errors.Is(err, er.ErrAddressTaken) {
		address = fmt.Sprintf("%s@%s", utils.GenerateMailboxLocalPart(), domain)
		committed, err = s.provider.CreateAccount(ctx, address, password)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.LogFields(tracingLog.String("address", committed))

	token, err := s.provider.ObtainToken(ctx, committed, password)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	mailbox := &models.Mailbox{
		ChatID:   chatID,
		Address:  committed,
		Password: password,
		Token:    token,
	}
	saved, err := s.postgres.MailboxRegistry.SaveMailbox(ctx, mailbox)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return saved, nil
}

func (s *mailboxService) Activate(ctx context.Context, chatID int64, mailboxID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.Activate")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)
	tracing.TagMailboxID(span, mailboxID)

	return s.postgres.MailboxRegistry.SetActive(ctx, chatID, mailboxID)
}

func (s *mailboxService) Deactivate(ctx context.Context, chatID int64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.Deactivate")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)

	return s.postgres.MailboxRegistry.Deactivate(ctx, chatID)
}

func (s *mailboxService) Delete(ctx context.Context, chatID int64, mailboxID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.Delete")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)
	tracing.TagMailboxID(span, mailboxID)

	return s.postgres.MailboxRegistry.DeleteMailbox(ctx, chatID, mailboxID)
}

func (s *mailboxService) List(ctx context.Context, chatID int64) ([]*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.List")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)

	return s.postgres.MailboxRegistry.ListMailboxes(ctx, chatID)
}

func (s *mailboxService) GetActive(ctx context.Context, chatID int64) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxService.GetActive")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)

	return s.postgres.MailboxRegistry.GetActive(ctx, chatID)
}
