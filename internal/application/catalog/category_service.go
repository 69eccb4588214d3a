package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category and size option operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	sizeRepo     catalog.SizeRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, sizeRepo catalog.SizeRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		sizeRepo:     sizeRepo,
	}
}

// List returns all categories with their product counts
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.categoryRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i], counts[categories[i].ID])
	}
	return out, nil
}

// GetByID returns a single category
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.categoryRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, counts[category.ID])
	return &resp, nil
}

// Create creates a category. An explicit slug must be free; a generated
// one gets a numeric suffix on collision.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.assignSlug(ctx, category, req.Slug); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, 0)
	return &resp, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if slug := strings.TrimSpace(req.Slug); slug != "" && catalog.Slugify(slug) != category.Slug {
		if err := s.assignSlug(ctx, category, slug); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a category. Products keep existing without it.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) assignSlug(ctx context.Context, category *catalog.Category, requested string) error {
	if requested = strings.TrimSpace(requested); requested != "" {
		if err := category.SetSlug(requested); err != nil {
			return err
		}
		exists, err := s.categoryRepo.ExistsBySlug(ctx, category.Slug)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
		}
		return nil
	}

	slug, err := catalog.UniqueSlug(category.Slug, func(candidate string) (bool, error) {
		return s.categoryRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return err
	}
	category.Slug = slug
	return nil
}

// ListSizes returns all size options
func (s *CategoryService) ListSizes(ctx context.Context) ([]SizeResponse, error) {
	sizes, err := s.sizeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SizeResponse, len(sizes))
	for i := range sizes {
		out[i] = ToSizeResponse(&sizes[i])
	}
	return out, nil
}

// CreateSize adds a size option. Each size code exists once.
func (s *CategoryService) CreateSize(ctx context.Context, req CreateSizeRequest) (*SizeResponse, error) {
	size, err := catalog.NewProductSize(catalog.SizeName(strings.TrimSpace(req.Name)))
	if err != nil {
		return nil, err
	}
	if _, err := s.sizeRepo.FindByName(ctx, size.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Size already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	if err := s.sizeRepo.Save(ctx, size); err != nil {
		return nil, err
	}
	resp := ToSizeResponse(size)
	return &resp, nil
}
