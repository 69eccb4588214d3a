package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/engagement"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriberRepository implements SubscriberRepository using GORM
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// Subscribe inserts the subscriber unless the email is already present and
// reports whether a row was created.
func (r *GormSubscriberRepository) Subscribe(ctx context.Context, subscriber *engagement.Subscriber) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(models.SubscriberModelFromDomain(subscriber))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of subscribers
func (r *GormSubscriberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SubscriberModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create stores a contact message
func (r *GormContactRepository) Create(ctx context.Context, message *engagement.ContactMessage) error {
	return r.db.WithContext(ctx).Create(models.ContactMessageModelFromDomain(message)).Error
}

var (
	_ engagement.SubscriberRepository = (*GormSubscriberRepository)(nil)
	_ engagement.ContactRepository    = (*GormContactRepository)(nil)
)
