package services

import (
	"github.com/burnerpost/burnerpost/config"
	"github.com/burnerpost/burnerpost/interfaces"
	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/repository"
	"github.com/burnerpost/burnerpost/services/events"
	"github.com/burnerpost/burnerpost/services/forwarder"
	"github.com/burnerpost/burnerpost/services/mailbox"
	"github.com/burnerpost/burnerpost/services/mailtm"
	"github.com/burnerpost/burnerpost/services/telegram"
)

type Services struct {
	ProviderClient   interfaces.ProviderClient
	NotificationSink interfaces.NotificationSink
	EventsPublisher  interfaces.EventsPublisher
	MailboxService   interfaces.MailboxService
	ForwarderService interfaces.ForwarderService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	provider := mailtm.NewMailtmService(cfg.MailtmConfig)
	sink := telegram.NewTelegramService(cfg.TelegramConfig)

	// events are optional; no URL means no publisher
	var publisher interfaces.EventsPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		var err error
		publisher, err = events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log)
		if err != nil {
			return nil, err
		}
	}

	services := Services{
		ProviderClient:   provider,
		NotificationSink: sink,
		EventsPublisher:  publisher,
		MailboxService:   mailbox.NewMailboxService(provider, repos),
		ForwarderService: forwarder.NewForwarderService(provider, sink, publisher, repos, log),
	}

	return &services, nil
}
