package engagement

import (
	"context"
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/engagement"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Mailer sends plain-text email
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ContactRequest is the contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Phone   string `json:"phone" binding:"omitempty,max=20,phone"`
	Message string `json:"message" binding:"required,max=5000"`
}

// SubscribeRequest is the newsletter form
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// Acknowledgement is the message shown after a form is accepted
type Acknowledgement struct {
	Message string `json:"message"`
}

// ErrPageNotFound is returned for unknown static page slugs
var ErrPageNotFound = shared.NewDomainError("PAGE_NOT_FOUND", "Page not found.")

// Service handles the contact form, newsletter sign-ups and static pages
type Service struct {
	contacts    engagement.ContactRepository
	subscribers engagement.SubscriberRepository
	mailer      Mailer
	ownerEmail  string
	logger      *zap.Logger
}

// NewService creates a new engagement Service. A nil mailer or empty
// ownerEmail disables forwarding of contact messages.
func NewService(
	contacts engagement.ContactRepository,
	subscribers engagement.SubscriberRepository,
	mailer Mailer,
	ownerEmail string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		contacts:    contacts,
		subscribers: subscribers,
		mailer:      mailer,
		ownerEmail:  ownerEmail,
		logger:      logger,
	}
}

// Contact stores the message and forwards it to the store owner
func (s *Service) Contact(ctx context.Context, req ContactRequest) (*Acknowledgement, error) {
	msg, err := engagement.NewContactMessage(req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.forward(ctx, msg)
	return &Acknowledgement{Message: engagement.ContactThanks}, nil
}

func (s *Service) forward(ctx context.Context, msg *engagement.ContactMessage) {
	if s.mailer == nil || s.ownerEmail == "" {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", msg.Name)
	fmt.Fprintf(&body, "Email: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", msg.Phone)
	}
	fmt.Fprintf(&body, "\n%s\n", msg.Message)

	subject := "New contact message from " + msg.Name
	if err := s.mailer.Send(ctx, []string{s.ownerEmail}, subject, body.String()); err != nil {
		s.logger.Warn("Failed to forward contact message",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err))
	}
}

// Subscribe adds the email to the newsletter. Subscribing twice is not an
// error.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (*Acknowledgement, error) {
	subscriber, err := engagement.NewSubscriber(req.Email)
	if err != nil {
		return nil, err
	}
	created, err := s.subscribers.Subscribe(ctx, subscriber)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Newsletter subscription", zap.String("subscriber_id", subscriber.ID.String()))
	}
	return &Acknowledgement{Message: engagement.NewsletterThanks}, nil
}

// Page returns a static content page
func (s *Service) Page(slug string) (*engagement.Page, error) {
	page, ok := engagement.FindPage(strings.ToLower(strings.TrimSpace(slug)))
	if !ok {
		return nil, ErrPageNotFound
	}
	return &page, nil
}
