package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/burnerpost/burnerpost/config"
	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type telegramService struct {
	cfg    *config.TelegramConfig
	client *http.Client
}

func NewTelegramService(cfg *config.TelegramConfig) interfaces.NotificationSink {
	return &telegramService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage pushes text to a chat through the Telegram Bot API. Any
// transport or API level failure maps to ErrDeliveryFailed so callers can
// retry on the next cycle without inspecting transport detail.
func (s *telegramService) SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TelegramService.SendMessage")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagChatID(span, chatID)

	payload := sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}
	if markdown {
		payload.ParseMode = "Markdown"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.BaseURL, s.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call Telegram API"))
		return errors.Wrap(er.ErrDeliveryFailed, err.Error())
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to parse Telegram response"))
		return errors.Wrap(er.ErrDeliveryFailed, err.Error())
	}
	if resp.StatusCode >= 400 || !result.OK {
		err := errors.Wrapf(er.ErrDeliveryFailed, "sendMessage returned %d: %s", resp.StatusCode, result.Description)
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}
