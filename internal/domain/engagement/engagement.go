package engagement

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Acknowledgements shown to visitors
const (
	ContactThanks    = "Thank you for your message! We will get back to you soon."
	NewsletterThanks = "Thank you for subscribing to our newsletter!"
)

// ContactMessage is a message sent through the contact form
type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// NewContactMessage validates and creates a contact message
func NewContactMessage(name, email, phone, message string) (*ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" || message == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Please fill in your name and message.")
	}
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Please enter a valid email address.")
	}
	if len(message) > 5000 {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Message cannot exceed 5000 characters.")
	}

	return &ContactMessage{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Message:   message,
		CreatedAt: time.Now(),
	}, nil
}

// Subscriber is a newsletter subscription, unique by email
type Subscriber struct {
	ID           uuid.UUID
	Email        string
	SubscribedAt time.Time
}

// NewSubscriber validates the email and creates a subscription
func NewSubscriber(email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Please enter a valid email address.")
	}
	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		SubscribedAt: time.Now(),
	}, nil
}

// SubscriberRepository persists newsletter subscribers
type SubscriberRepository interface {
	// Subscribe stores the subscriber unless the email is already present.
	// It reports whether a new row was created.
	Subscribe(ctx context.Context, subscriber *Subscriber) (bool, error)

	Count(ctx context.Context) (int64, error)
}

// ContactRepository persists contact messages
type ContactRepository interface {
	Create(ctx context.Context, message *ContactMessage) error
}
