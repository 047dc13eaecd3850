package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

func product(name string, price string, opts ...func(*models.Product)) models.Product {
	p := models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func withCategory(id uuid.UUID) func(*models.Product) {
	return func(p *models.Product) { p.CategoryID = &id }
}

func withDescription(desc string) func(*models.Product) {
	return func(p *models.Product) { p.Description = &desc }
}

func withCreatedAt(at time.Time) func(*models.Product) {
	return func(p *models.Product) { p.CreatedAt = at }
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestApplyFilterPriceBoundsAreInclusive(t *testing.T) {
	input := []models.Product{
		product("below", "9.99"),
		product("low-edge", "10.00"),
		product("middle", "15.50"),
		product("high-edge", "20.00"),
		product("above", "20.01"),
	}

	result := ApplyFilter(input, Filter{MinPrice: dec("10"), MaxPrice: dec("20")})

	assert.Equal(t, []string{"low-edge", "middle", "high-edge"}, names(result))
}

func TestApplyFilterPreservesRelativeOrderWithoutSort(t *testing.T) {
	input := []models.Product{
		product("c", "30"),
		product("a", "10"),
		product("b", "20"),
	}

	result := ApplyFilter(input, Filter{})

	assert.Equal(t, []string{"c", "a", "b"}, names(result))
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	input := []models.Product{
		product("b", "20"),
		product("a", "10"),
	}

	_ = ApplyFilter(input, Filter{SortBy: SortPriceAsc})

	assert.Equal(t, []string{"b", "a"}, names(input))
}

func TestApplyFilterCategory(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	input := []models.Product{
		product("in-a", "10", withCategory(catA)),
		product("in-b", "10", withCategory(catB)),
		product("uncategorized", "10"),
	}

	result := ApplyFilter(input, Filter{CategoryID: &catA})

	assert.Equal(t, []string{"in-a"}, names(result))
}

func TestApplyFilterSearchMatchesNameOrDescription(t *testing.T) {
	input := []models.Product{
		product("Walnut Desk", "100"),
		product("Office Chair", "80", withDescription("pairs well with any desk")),
		product("Floor Lamp", "40"),
	}

	result := ApplyFilter(input, Filter{Search: "DESK"})

	assert.Equal(t, []string{"Walnut Desk", "Office Chair"}, names(result))
}

func TestApplyFilterSortAscThenDescAreReversed(t *testing.T) {
	input := []models.Product{
		product("mid", "15"),
		product("cheap", "5"),
		product("pricey", "25"),
	}

	asc := ApplyFilter(input, Filter{SortBy: SortPriceAsc})
	desc := ApplyFilter(input, Filter{SortBy: SortPriceDesc})

	require.Len(t, asc, 3)
	require.Len(t, desc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].Name, desc[len(desc)-1-i].Name)
	}
}

func TestApplyFilterSortNewest(t *testing.T) {
	now := time.Now()
	input := []models.Product{
		product("oldest", "10", withCreatedAt(now.Add(-2*time.Hour))),
		product("newest", "10", withCreatedAt(now)),
		product("middle", "10", withCreatedAt(now.Add(-time.Hour))),
	}

	result := ApplyFilter(input, Filter{SortBy: SortNewest})

	assert.Equal(t, []string{"newest", "middle", "oldest"}, names(result))
}

func TestApplyFilterPopularKeepsSameSet(t *testing.T) {
	input := []models.Product{
		product("a", "10"),
		product("b", "20"),
		product("c", "30"),
	}

	result := ApplyFilter(input, Filter{SortBy: SortPopular})

	assert.ElementsMatch(t, names(input), names(result))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input string
		want  SortKey
		ok    bool
	}{
		{"price_asc", SortPriceAsc, true},
		{"PRICE_DESC", SortPriceDesc, true},
		{" newest ", SortNewest, true},
		{"popular", SortPopular, true},
		{"alphabetical", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseSortKey(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}
