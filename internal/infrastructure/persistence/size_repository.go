package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSizeRepository implements SizeRepository using GORM
type GormSizeRepository struct {
	db *gorm.DB
}

// NewGormSizeRepository creates a new GormSizeRepository
func NewGormSizeRepository(db *gorm.DB) *GormSizeRepository {
	return &GormSizeRepository{db: db}
}

// FindByID finds a size option by its ID
func (r *GormSizeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductSize, error) {
	var model models.SizeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	size := model.ToDomain()
	return &size, nil
}

// FindByIDs finds all size options with the given IDs
func (r *GormSizeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductSize, error) {
	if len(ids) == 0 {
		return []catalog.ProductSize{}, nil
	}
	var sizeModels []models.SizeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sizeModels).Error; err != nil {
		return nil, err
	}
	return sortedSizes(sizeModels), nil
}

// FindByName finds a size option by its code
func (r *GormSizeRepository) FindByName(ctx context.Context, name catalog.SizeName) (*catalog.ProductSize, error) {
	var model models.SizeModel
	if err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	size := model.ToDomain()
	return &size, nil
}

// FindAll returns every size option in display order
func (r *GormSizeRepository) FindAll(ctx context.Context) ([]catalog.ProductSize, error) {
	var sizeModels []models.SizeModel
	if err := r.db.WithContext(ctx).Find(&sizeModels).Error; err != nil {
		return nil, err
	}
	return sortedSizes(sizeModels), nil
}

// Save creates or updates a size option
func (r *GormSizeRepository) Save(ctx context.Context, size *catalog.ProductSize) error {
	return r.db.WithContext(ctx).Save(models.SizeModelFromDomain(*size)).Error
}

// sortedSizes orders sizes by catalog.AllSizeNames rather than by code
func sortedSizes(sizeModels []models.SizeModel) []catalog.ProductSize {
	byName := make(map[catalog.SizeName]catalog.ProductSize, len(sizeModels))
	for i := range sizeModels {
		s := sizeModels[i].ToDomain()
		byName[s.Name] = s
	}

	sizes := make([]catalog.ProductSize, 0, len(sizeModels))
	for _, name := range catalog.AllSizeNames() {
		if s, ok := byName[name]; ok {
			sizes = append(sizes, s)
			delete(byName, name)
		}
	}
	for _, s := range byName {
		sizes = append(sizes, s)
	}
	return sizes
}

// Ensure GormSizeRepository implements SizeRepository
var _ catalog.SizeRepository = (*GormSizeRepository)(nil)
