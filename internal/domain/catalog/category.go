package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products for browsing. Slug is unique and derived from
// the name unless set explicitly.
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
}

// NewCategory creates a new category. The slug is Slugify(name); callers
// that need collision handling pass the result through UniqueSlug.
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		Description:       description,
	}
	return category, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.IncrementVersion()
	return nil
}

// SetSlug overrides the generated slug.
func (c *Category) SetSlug(slug string) error {
	slug = Slugify(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	c.Slug = slug
	c.IncrementVersion()
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
