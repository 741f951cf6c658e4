package mailtm

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

func newTestService(handler http.Handler) (*httptest.Server, *mailtmService) {
	srv := httptest.NewServer(handler)
	svc := NewMailtmService(&config.MailtmConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
	}).(*mailtmService)
	return srv, svc
}

func TestListActiveDomain_PicksActive(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domains", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"hydra:member": []map[string]interface{}{
				{"domain": "stale.test", "isActive": false},
				{"domain": "fresh.test", "isActive": true},
			},
		})
	}))
	defer srv.Close()

	domain, err := svc.ListActiveDomain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh.test", domain)
}

func TestListActiveDomain_NoneAvailable(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"hydra:member": []interface{}{}})
	}))
	defer srv.Close()

	_, err := svc.ListActiveDomain(context.Background())

	assert.ErrorIs(t, err, er.ErrNoDomainAvailable)
}

func TestCreateAccount_ReturnsCommittedAddress(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload["address"])
		assert.NotEmpty(t, payload["password"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"address": payload["address"]})
	}))
	defer srv.Close()

	address, err := svc.CreateAccount(context.Background(), "local@fresh.test", "secret")

	require.NoError(t, err)
	assert.Equal(t, "local@fresh.test", address)
}

func TestCreateAccount_AddressTaken(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := svc.CreateAccount(context.Background(), "dup@fresh.test", "secret")

	assert.ErrorIs(t, err, er.ErrAddressTaken)
}

func TestObtainToken_AuthError(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := svc.ObtainToken(context.Background(), "a@fresh.test", "wrong")

	assert.ErrorIs(t, err, er.ErrAuthFailed)
}

func TestListMessageSummaries_SendsBearerToken(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"hydra:member": []map[string]interface{}{
				{"id": "m2", "from": map[string]string{"address": "b@x.test"}, "subject": "second"},
				{"id": "m1", "from": map[string]string{"address": "a@x.test"}, "subject": "first"},
			},
		})
	}))
	defer srv.Close()

	summaries, err := svc.ListMessageSummaries(context.Background(), "jwt-token")

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	// provider order is preserved, newest first
	assert.Equal(t, "m2", summaries[0].ID)
	assert.Equal(t, "b@x.test", summaries[0].From)
	assert.Equal(t, "second", summaries[0].Subject)
}

func TestListMessageSummaries_ServerErrorIsProviderUnavailable(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := svc.ListMessageSummaries(context.Background(), "jwt-token")

	assert.ErrorIs(t, err, er.ErrProviderUnavailable)
}

func TestReadMessage_ParsesBody(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/m1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        "m1",
			"from":      map[string]string{"address": "a@x.test", "name": "Alice"},
			"subject":   "hello",
			"createdAt": "2025-04-02T09:30:00Z",
			"text":      "plain body",
			"html":      []string{"<p>hi</p>"},
		})
	}))
	defer srv.Close()

	msg, err := svc.ReadMessage(context.Background(), "jwt-token", "m1")

	require.NoError(t, err)
	assert.Equal(t, "a@x.test", msg.From)
	assert.Equal(t, "hello", msg.Subject)
	assert.Equal(t, "plain body", msg.Text)
	assert.True(t, msg.HasHTML)
	assert.Equal(t, 2025, msg.ReceivedAt.Year())
}

func TestReadMessage_Retracted(t *testing.T) {
	srv, svc := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := svc.ReadMessage(context.Background(), "jwt-token", "gone")

	assert.ErrorIs(t, err, er.ErrMessageNotFound)
}
