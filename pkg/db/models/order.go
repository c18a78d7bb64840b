package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/basabecode/tupijama.com-sub001/pkg/types"
)

// Order belongs to exactly one user. Rows are only ever written by the
// create_order_with_items procedure, never mutated by handlers.
type Order struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb"`
	BillingAddress  *types.Address `gorm:"column:billing_address;type:jsonb"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
}
