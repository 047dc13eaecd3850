package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// ItemDTO is one cart line joined with its current product.
type ItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CartDTO is the full cart view with derived totals. Totals are recomputed
// from the line list on every build and price uses the current product price,
// not an order snapshot.
type CartDTO struct {
	Items      []ItemDTO       `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func buildCart(items []ItemDTO) CartDTO {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		if item.Product != nil {
			totalPrice = totalPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return CartDTO{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
	}
}

func itemFromModel(m *models.CartItem) ItemDTO {
	return ItemDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Product:   catalog.ProductFromModel(m.Product),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
