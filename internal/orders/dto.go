package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	"github.com/basabecode/tupijama.com-sub001/pkg/types"
)

// CreateOrderItem is one requested line in an order creation call. Pricing is
// resolved inside the creation procedure, never trusted from the client.
type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

// CreateOrderInput carries everything the creation procedure needs.
type CreateOrderInput struct {
	UserID          uuid.UUID
	Items           []CreateOrderItem
	ShippingAddress *types.Address
	BillingAddress  *types.Address
}

// ItemView is the order line shape returned to clients.
type ItemView struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
}

// OrderView is the order shape returned to clients, items included.
type OrderView struct {
	ID              uuid.UUID      `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
	Items           []ItemView     `json:"items"`
}

func viewFromModel(order models.Order) OrderView {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Qty:       item.Qty,
		})
	}
	return OrderView{
		ID:              order.ID,
		CreatedAt:       order.CreatedAt,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Items:           items,
	}
}
