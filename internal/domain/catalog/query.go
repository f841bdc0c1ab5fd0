package catalog

import (
	"strings"

	"github.com/carzone/server/internal/model"
)

// normalizeFilter clamps paging, resolves the sort and rejects contradictory ranges.
// Unknown sort keys fall back to created_at desc.
func normalizeFilter(filter *model.ProductFilter, defaultSize, maxSize int) error {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Brand = strings.TrimSpace(filter.Brand)
	filter.Pagination.Normalize(defaultSize, maxSize)

	filter.SortRequest.DefaultSort(string(model.ProductSortCreatedAt), model.SortDesc)
	if !model.ProductSortField(filter.SortBy).IsValid() {
		filter.SortBy = string(model.ProductSortCreatedAt)
		filter.SortOrder = model.SortDesc
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return ErrInvalidPriceRange
	}
	if filter.MinRating != nil && (*filter.MinRating < 0 || *filter.MinRating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// Slugify turns a category name into a URL slug: lowercase ASCII letters
// and digits separated by single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
