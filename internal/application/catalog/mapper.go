package catalog

import (
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ToProductResponse converts a domain product to its API form. imageBaseURL
// is prefixed to relative image keys.
func ToProductResponse(p *catalog.Product, imageBaseURL string) ProductResponse {
	categories := make([]CategoryRef, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}

	sizeData := make(map[string]SizeOption, len(p.SizeStocks))
	for _, stock := range p.SizeStocks {
		sizeData[stock.SizeID.String()] = SizeOption{
			Name:          string(stock.SizeName),
			DisplayName:   stock.SizeName.DisplayName(),
			Price:         p.PriceForSize(stock.SizeID),
			OriginalPrice: stock.Price,
			Stock:         stock.Quantity,
		}
	}

	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Image:            ImageURL(p.Image, imageBaseURL),
		Price:            p.Price,
		DiscountPercent:  p.DiscountPercent,
		DiscountedPrice:  p.DiscountedPrice(),
		InitialPrice:     p.InitialPrice(),
		Rating:           p.Rating,
		NumRatings:       p.NumRatings,
		Stars:            catalog.StarRating(p.Rating),
		StockQuantity:    p.StockQuantity,
		StockStatus:      string(p.StockStatus),
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		SpecialFeatures:  string(p.SpecialFeatures),
		IsFeatured:       p.IsFeatured,
		Categories:       categories,
		SizeData:         sizeData,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product, imageBaseURL string) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i], imageBaseURL)
	}
	return out
}

// ToAdminProductResponse converts a product to a back-office list row
func ToAdminProductResponse(p *catalog.Product) AdminProductResponse {
	return AdminProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		DiscountedPrice: p.DiscountedPrice(),
		StockQuantity:   p.StockQuantity,
		StockStatus:     string(p.StockStatus),
		IsFeatured:      p.IsFeatured,
		CreatedAt:       p.CreatedAt,
	}
}

// ToCategoryResponse converts a category
func ToCategoryResponse(c *catalog.Category, productCount int64) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ProductCount: productCount,
	}
}

// ToSizeResponse converts a size option
func ToSizeResponse(s *catalog.ProductSize) SizeResponse {
	return SizeResponse{ID: s.ID, Name: string(s.Name), DisplayName: s.DisplayName()}
}

// ImageURL prefixes baseURL to relative image keys
func ImageURL(image, baseURL string) string {
	if image == "" || baseURL == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(image, "/")
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
