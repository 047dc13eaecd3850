package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a number").WithDetails(map[string]any{"field": key})
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must not be negative").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseCatalogFilter reads the product listing filter from the query string.
func ParseCatalogFilter(r *http.Request) (catalog.Filter, error) {
	var filter catalog.Filter

	categoryID, err := ParseQueryUUID(r, "category_id")
	if err != nil {
		return filter, err
	}
	filter.CategoryID = categoryID

	minPrice, err := ParseQueryDecimal(r, "min_price")
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := ParseQueryDecimal(r, "max_price")
	if err != nil {
		return filter, err
	}
	filter.MaxPrice = maxPrice

	filter.Search = SanitizeString(r.URL.Query().Get("search"), 200)

	if raw := r.URL.Query().Get("sort_by"); strings.TrimSpace(raw) != "" {
		sortBy, ok := catalog.ParseSortKey(raw)
		if !ok {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key").WithDetails(map[string]any{"field": "sort_by"})
		}
		filter.SortBy = sortBy
	}

	return filter, nil
}
