package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository stores accounts in the users table. Emails are stored
// lowercased by the domain but compared with LOWER() to cover rows written
// before that rule.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	err := r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.UserModelFromDomain(user))
	switch {
	case result.Error != nil:
		return result.Error
	case result.RowsAffected == 0:
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	login = strings.TrimSpace(login)
	query := r.db.WithContext(ctx).Where("username = ?", login)
	if strings.Contains(login, "@") {
		query = r.db.WithContext(ctx).
			Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
			Clauses(usernameFirst(login))
	}

	var rows []models.UserModel
	if err := query.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return rows[0].ToDomain(), nil
}

func (r *GormUserRepository) Conflicts(ctx context.Context, username, email string) (identity.Conflicts, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var taken []models.UserModel
	err := r.db.WithContext(ctx).
		Select("username", "email").
		Where("username = ? OR LOWER(email) = ?", username, email).
		Find(&taken).Error
	if err != nil {
		return identity.Conflicts{}, err
	}

	var c identity.Conflicts
	for _, u := range taken {
		c.Username = c.Username || u.Username == username
		c.Email = c.Email || strings.ToLower(u.Email) == email
	}
	return c, nil
}

// usernameFirst sorts an exact username hit ahead of an email hit
func usernameFirst(login string) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN username = ? THEN 0 ELSE 1 END",
		Vars:               []interface{}{login},
		WithoutParentheses: true,
	}}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
