package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront/backend/internal/domain/engagement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, message *engagement.ContactMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Subscribe(ctx context.Context, subscriber *engagement.Subscriber) (bool, error) {
	args := m.Called(ctx, subscriber)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriberRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	f.sent = append(f.sent, to[0]+"|"+subject+"|"+body)
	return f.err
}

func TestService_Contact(t *testing.T) {
	ctx := context.Background()
	req := ContactRequest{Name: "Asha", Email: "asha@example.com", Phone: "98765", Message: "Do you ship to Pune?"}

	t.Run("stores and forwards", func(t *testing.T) {
		contacts := new(MockContactRepository)
		mailer := &fakeMailer{}
		svc := NewService(contacts, new(MockSubscriberRepository), mailer, "owner@example.com", nil)
		contacts.On("Create", ctx, mock.AnythingOfType("*engagement.ContactMessage")).Return(nil)

		ack, err := svc.Contact(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Thank you for your message! We will get back to you soon.", ack.Message)

		require.Len(t, mailer.sent, 1)
		assert.Contains(t, mailer.sent[0], "owner@example.com|New contact message from Asha|")
		assert.Contains(t, mailer.sent[0], "Phone: 98765")
		assert.Contains(t, mailer.sent[0], "Do you ship to Pune?")
	})

	t.Run("mail failure is not an error", func(t *testing.T) {
		contacts := new(MockContactRepository)
		mailer := &fakeMailer{err: errors.New("smtp down")}
		svc := NewService(contacts, new(MockSubscriberRepository), mailer, "owner@example.com", nil)
		contacts.On("Create", ctx, mock.Anything).Return(nil)

		_, err := svc.Contact(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("invalid message is not stored", func(t *testing.T) {
		contacts := new(MockContactRepository)
		svc := NewService(contacts, new(MockSubscriberRepository), nil, "", nil)

		_, err := svc.Contact(ctx, ContactRequest{Name: "Asha", Email: "asha", Message: "hi"})
		require.Error(t, err)
		contacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()
	subscribers := new(MockSubscriberRepository)
	svc := NewService(new(MockContactRepository), subscribers, nil, "", nil)

	subscribers.On("Subscribe", ctx, mock.MatchedBy(func(s *engagement.Subscriber) bool {
		return s.Email == "asha@example.com"
	})).Return(true, nil).Once()
	subscribers.On("Subscribe", ctx, mock.Anything).Return(false, nil).Once()

	ack, err := svc.Subscribe(ctx, SubscribeRequest{Email: "Asha@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for subscribing to our newsletter!", ack.Message)

	again, err := svc.Subscribe(ctx, SubscribeRequest{Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, ack.Message, again.Message)
	subscribers.AssertExpectations(t)
}

func TestService_Page(t *testing.T) {
	svc := NewService(nil, nil, nil, "", nil)

	page, err := svc.Page("About")
	require.NoError(t, err)
	assert.Equal(t, "about", page.Slug)

	_, err = svc.Page("terms")
	assert.ErrorIs(t, err, ErrPageNotFound)
}
