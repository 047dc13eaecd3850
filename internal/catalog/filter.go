package catalog

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// SortKey names the supported catalog orderings.
type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
)

// ParseSortKey returns the typed sort key, or false for unknown values.
func ParseSortKey(value string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortPriceAsc:
		return SortPriceAsc, true
	case SortPriceDesc:
		return SortPriceDesc, true
	case SortNewest:
		return SortNewest, true
	case SortPopular:
		return SortPopular, true
	}
	return "", false
}

// Filter describes the catalog view a client requested. Zero-valued fields
// leave the corresponding dimension unfiltered.
type Filter struct {
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	SortBy     SortKey
}

// ApplyFilter narrows and orders the product list in memory. Filters apply in
// a fixed order: category, min price, max price, search, then sort. Price
// bounds are inclusive; search matches name or description case-insensitively.
// The input slice is never mutated and relative order is preserved unless a
// sort key is given.
func ApplyFilter(products []models.Product, f Filter) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.Search != "" && !matchesSearch(p, f.Search) {
			continue
		}
		result = append(result, p)
	}

	switch f.SortBy {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.LessThan(result[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.GreaterThan(result[j].Price)
		})
	case SortNewest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	case SortPopular:
		// No popularity signal exists yet, so "popular" is a shuffle.
		rand.Shuffle(len(result), func(i, j int) {
			result[i], result[j] = result[j], result[i]
		})
	}

	return result
}

func matchesSearch(p models.Product, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
}
