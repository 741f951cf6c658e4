package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnerpost/burnerpost/config"
	er "github.com/burnerpost/burnerpost/internal/errors"
)

func newTestService(handler http.Handler) (*httptest.Server, *telegramService) {
	srv := httptest.NewServer(handler)
	svc := NewTelegramService(&config.TelegramConfig{
		BotToken:       "bot-token",
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
	}).(*telegramService)
	return srv, svc
}

func TestSendMessage_Success(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botbot-token/sendMessage", r.URL.Path)

		var payload sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(42), payload.ChatID)
		assert.Equal(t, "hello", payload.Text)
		assert.Empty(t, payload.ParseMode)

		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	err := svc.SendMessage(context.Background(), 42, "hello", false)

	assert.NoError(t, err)
}

func TestSendMessage_MarkdownFlag(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Markdown", payload.ParseMode)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	err := svc.SendMessage(context.Background(), 42, "*bold*", true)

	assert.NoError(t, err)
}

func TestSendMessage_APIRejection(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "description": "Too Many Requests"})
	}))
	defer srv.Close()

	err := svc.SendMessage(context.Background(), 42, "hello", false)

	assert.ErrorIs(t, err, er.ErrDeliveryFailed)
}

func TestSendMessage_TransportError(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	err := svc.SendMessage(context.Background(), 42, "hello", false)

	assert.ErrorIs(t, err, er.ErrDeliveryFailed)
}
