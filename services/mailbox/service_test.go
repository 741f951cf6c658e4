package mailbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/models"
	"github.com/burnerpost/burnerpost/internal/repository"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ListActiveDomain(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) CreateAccount(ctx context.Context, address, password string) (string, error) {
	args := m.Called(ctx, address, password)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ObtainToken(ctx context.Context, address, password string) (string, error) {
	args := m.Called(ctx, address, password)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ListMessageSummaries(ctx context.Context, token string) ([]interfaces.MessageSummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.MessageSummary), args.Error(1)
}

func (m *mockProvider) ReadMessage(ctx context.Context, token, messageID string) (*interfaces.Message, error) {
	args := m.Called(ctx, token, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Message), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) SaveMailbox(ctx context.Context, mailbox *models.Mailbox) (*models.Mailbox, error) {
	args := m.Called(ctx, mailbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mailbox), args.Error(1)
}

func (m *mockRegistry) GetMailbox(ctx context.Context, chatID int64, mailboxID string) (*models.Mailbox, error) {
	args := m.Called(ctx, chatID, mailboxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mailbox), args.Error(1)
}

func (m *mockRegistry) ListMailboxes(ctx context.Context, chatID int64) ([]*models.Mailbox, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mailbox), args.Error(1)
}

func (m *mockRegistry) DeleteMailbox(ctx context.Context, chatID int64, mailboxID string) error {
	args := m.Called(ctx, chatID, mailboxID)
	return args.Error(0)
}

func (m *mockRegistry) SetActive(ctx context.Context, chatID int64, mailboxID string) error {
	args := m.Called(ctx, chatID, mailboxID)
	return args.Error(0)
}

func (m *mockRegistry) GetActive(ctx context.Context, chatID int64) (*models.Mailbox, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mailbox), args.Error(1)
}

func (m *mockRegistry) Deactivate(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockRegistry) ListActiveSelections(ctx context.Context) ([]*models.ActiveSelection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActiveSelection), args.Error(1)
}

func newFixture(provider *mockProvider, registry *mockRegistry) interfaces.MailboxService {
	repos := &repository.Repositories{MailboxRegistry: registry}
	return NewMailboxService(provider, repos)
}

func TestCreateMailbox_HappyPath(t *testing.T) {
	provider := new(mockProvider)
	registry := new(mockRegistry)

	provider.On("ListActiveDomain", mock.Anything).Return("example.test", nil)
	provider.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return("abc123@example.test", nil).Once()
	provider.On("ObtainToken", mock.Anything, "abc123@example.test", mock.Anything).
		Return("jwt-token", nil)
	registry.On("SaveMailbox", mock.Anything, mock.MatchedBy(func(m *models.Mailbox) bool {
		return m.ChatID == 42 && m.Address == "abc123@example.test" && m.Token == "jwt-token"
	})).Return(&models.Mailbox{ID: "mbox-1", ChatID: 42, Address: "abc123@example.test"}, nil)

	mbox, err := newFixture(provider, registry).CreateMailbox(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "mbox-1", mbox.ID)
	provider.AssertNumberOfCalls(t, "CreateAccount", 1)
}

func TestCreateMailbox_RetriesOnceOnAddressTaken(t *testing.T) {
	provider := new(mockProvider)
	registry := new(mockRegistry)

	provider.On("ListActiveDomain", mock.Anything).Return("example.test", nil)

	var requested []string
	provider.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return("", er.ErrAddressTaken).Once().
		Run(func(args mock.Arguments) { requested = append(requested, args.String(1)) })
	provider.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return("fresh@example.test", nil).Once().
		Run(func(args mock.Arguments) { requested = append(requested, args.String(1)) })
	provider.On("ObtainToken", mock.Anything, "fresh@example.test", mock.Anything).
		Return("jwt-token", nil)
	registry.On("SaveMailbox", mock.Anything, mock.Anything).
		Return(&models.Mailbox{ID: "mbox-2", ChatID: 42, Address: "fresh@example.test"}, nil)

	mbox, err := newFixture(provider, registry).CreateMailbox(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "fresh@example.test", mbox.Address)
	provider.AssertNumberOfCalls(t, "CreateAccount", 2)
	// the retry uses a freshly generated local part
	assert.Len(t, requested, 2)
	assert.NotEqual(t, requested[0], requested[1])
}

func TestCreateMailbox_SecondCollisionSurfaces(t *testing.T) {
	provider := new(mockProvider)
	registry := new(mockRegistry)

	provider.On("ListActiveDomain", mock.Anything).Return("example.test", nil)
	provider.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return("", er.ErrAddressTaken).Twice()

	_, err := newFixture(provider, registry).CreateMailbox(context.Background(), 42)

	assert.ErrorIs(t, err, er.ErrAddressTaken)
	provider.AssertNumberOfCalls(t, "CreateAccount", 2)
	registry.AssertNotCalled(t, "SaveMailbox", mock.Anything, mock.Anything)
}

func TestCreateMailbox_NoDomainAvailable(t *testing.T) {
	provider := new(mockProvider)
	registry := new(mockRegistry)

	provider.On("ListActiveDomain", mock.Anything).Return("", er.ErrNoDomainAvailable)

	_, err := newFixture(provider, registry).CreateMailbox(context.Background(), 42)

	assert.ErrorIs(t, err, er.ErrNoDomainAvailable)
	provider.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}
