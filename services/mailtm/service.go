package mailtm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/burnerpost/burnerpost/config"
	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

// mail.tm API reference: https://docs.mail.tm
type mailtmService struct {
	cfg    *config.MailtmConfig
	client *http.Client
}

func NewMailtmService(cfg *config.MailtmConfig) interfaces.ProviderClient {
	return &mailtmService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type hydraDomains struct {
	Members []struct {
		Domain   string `json:"domain"`
		IsActive bool   `json:"isActive"`
	} `json:"hydra:member"`
}

type hydraMessages struct {
	Members []struct {
		ID   string `json:"id"`
		From struct {
			Address string `json:"address"`
			Name    string `json:"name"`
		} `json:"from"`
		Subject string `json:"subject"`
	} `json:"hydra:member"`
}

type messagePayload struct {
	ID   string `json:"id"`
	From struct {
		Address string `json:"address"`
		Name    string `json:"name"`
	} `json:"from"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
	Text      string    `json:"text"`
	HTML      []string  `json:"html"`
}

// ListActiveDomain returns the first active domain the provider advertises.
func (s *mailtmService) ListActiveDomain(ctx context.Context) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailtmService.ListActiveDomain")
	defer span.Finish()
	tracing.TagComponentService(span)

	var payload hydraDomains
	if err := s.get(ctx, span, "/domains?page=1", "", &payload); err != nil {
		return "", err
	}
	if len(payload.Members) == 0 {
		tracing.TraceErr(span, er.ErrNoDomainAvailable)
		return "", er.ErrNoDomainAvailable
	}
	for _, d := range payload.Members {
		if d.IsActive {
			span.LogFields(tracingLog.String("domain", d.Domain))
			return d.Domain, nil
		}
	}
	return payload.Members[0].Domain, nil
}

func (s *mailtmService) CreateAccount(ctx context.Context, address, password string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailtmService.CreateAccount")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("address", address)

	body, err := json.Marshal(map[string]string{"address": address, "password": password})
	if err != nil {
		return "", err
	}

	resp, err := s.do(ctx, span, http.MethodPost, "/accounts", "", bytes.NewReader(body))
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call mail.tm accounts API"))
		return "", errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict:
		return "", er.ErrAddressTaken
	case resp.StatusCode >= 400:
		err := errors.Wrapf(er.ErrProviderUnavailable, "account creation returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return "", err
	}

	var created struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to parse account response"))
		return "", errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	return created.Address, nil
}

func (s *mailtmService) ObtainToken(ctx context.Context, address, password string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailtmService.ObtainToken")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("address", address)

	body, err := json.Marshal(map[string]string{"address": address, "password": password})
	if err != nil {
		return "", err
	}

	resp, err := s.do(ctx, span, http.MethodPost, "/token", "", bytes.NewReader(body))
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call mail.tm token API"))
		return "", errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", er.ErrAuthFailed
	case resp.StatusCode >= 400:
		err := errors.Wrapf(er.ErrProviderUnavailable, "token issuance returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return "", err
	}

	var issued struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&issued); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to parse token response"))
		return "", errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	return issued.Token, nil
}

// ListMessageSummaries returns the inbox listing, newest first per provider
// convention. No message body is fetched here.
func (s *mailtmService) ListMessageSummaries(ctx context.Context, token string) ([]interfaces.MessageSummary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailtmService.ListMessageSummaries")
	defer span.Finish()
	tracing.TagComponentService(span)

	var payload hydraMessages
	if err := s.get(ctx, span, "/messages?page=1", token, &payload); err != nil {
		return nil, err
	}

	summaries := make([]interfaces.MessageSummary, 0, len(payload.Members))
	for _, m := range payload.Members {
		summaries = append(summaries, interfaces.MessageSummary{
			ID:      m.ID,
			From:    m.From.Address,
			Subject: m.Subject,
		})
	}
	span.LogFields(tracingLog.Int("message_count", len(summaries)))
	return summaries, nil
}

func (s *mailtmService) ReadMessage(ctx context.Context, token, messageID string) (*interfaces.Message, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailtmService.ReadMessage")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("message_id", messageID)

	resp, err := s.do(ctx, span, http.MethodGet, "/messages/"+messageID, token, nil)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call mail.tm messages API"))
		return nil, errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// message retracted between list and read
		return nil, er.ErrMessageNotFound
	case resp.StatusCode >= 400:
		err := errors.Wrapf(er.ErrProviderUnavailable, "message read returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return nil, err
	}

	var payload messagePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to parse message response"))
		return nil, errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}

	return &interfaces.Message{
		ID:         payload.ID,
		From:       payload.From.Address,
		Subject:    payload.Subject,
		ReceivedAt: payload.CreatedAt,
		Text:       payload.Text,
		HasHTML:    len(payload.HTML) > 0,
	}, nil
}

func (s *mailtmService) get(ctx context.Context, span opentracing.Span, path, token string, out interface{}) error {
	resp, err := s.do(ctx, span, http.MethodGet, path, token, nil)
	if err != nil {
		tracing.TraceErr(span, errors.Wrapf(err, "failed to call mail.tm API %s", path))
		return errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return er.ErrAuthFailed
	}
	if resp.StatusCode >= 400 {
		err := errors.Wrapf(er.ErrProviderUnavailable, "%s returned %d", path, resp.StatusCode)
		tracing.TraceErr(span, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		tracing.TraceErr(span, errors.Wrapf(err, "failed to parse mail.tm response for %s", path))
		return errors.Wrap(er.ErrProviderUnavailable, err.Error())
	}
	return nil
}

func (s *mailtmService) do(ctx context.Context, span opentracing.Span, method, path, token string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req = tracing.InjectSpanContextIntoHTTPRequest(req, span)
	return s.client.Do(req)
}
