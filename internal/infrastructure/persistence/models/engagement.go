package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/engagement"
)

// SubscriberModel is a newsletter subscription.
type SubscriberModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	SubscribedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SubscriberModel) TableName() string {
	return "newsletter_subscribers"
}

// ToDomain converts the persistence model to a domain Subscriber.
func (m *SubscriberModel) ToDomain() *engagement.Subscriber {
	return &engagement.Subscriber{ID: m.ID, Email: m.Email, SubscribedAt: m.SubscribedAt}
}

// SubscriberModelFromDomain creates a persistence model from a domain Subscriber.
func SubscriberModelFromDomain(s *engagement.Subscriber) *SubscriberModel {
	return &SubscriberModel{ID: s.ID, Email: s.Email, SubscribedAt: s.SubscribedAt}
}

// ContactMessageModel is a message sent through the contact form.
type ContactMessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(254);not null"`
	Phone     string    `gorm:"type:varchar(20)"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ContactMessageModel) TableName() string {
	return "contact_messages"
}

// ContactMessageModelFromDomain creates a persistence model from a domain ContactMessage.
func ContactMessageModelFromDomain(c *engagement.ContactMessage) *ContactMessageModel {
	return &ContactMessageModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}
