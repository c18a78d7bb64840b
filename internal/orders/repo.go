package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	"github.com/basabecode/tupijama.com-sub001/pkg/types"
)

// Repository defines persistence operations for orders. Every read carries
// the owner's user id as a query-level filter; ownership is never checked
// after the fact in application code.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	FindOwned(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error)
	Create(ctx context.Context, input CreateOrderInput) (uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, viewFromModel(row))
	}
	return views, nil
}

func (r *repository) FindOwned(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	view := viewFromModel(row)
	return &view, nil
}

// Create delegates the entire write to the create_order_with_items procedure:
// one round-trip, one transaction, no partial state reachable from here.
func (r *repository) Create(ctx context.Context, input CreateOrderInput) (uuid.UUID, error) {
	if len(input.Items) == 0 {
		return uuid.Nil, fmt.Errorf("order must contain at least one item")
	}

	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding items: %w", err)
	}

	shipping, err := marshalAddress(input.ShippingAddress)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding shipping address: %w", err)
	}
	billing, err := marshalAddress(input.BillingAddress)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding billing address: %w", err)
	}

	var orderID uuid.UUID
	err = r.db.WithContext(ctx).
		Raw(
			"SELECT create_order_with_items(?::uuid, ?::jsonb, ?::jsonb, ?::jsonb)",
			input.UserID, string(itemsJSON), shipping, billing,
		).
		Scan(&orderID).Error
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

func marshalAddress(addr *types.Address) (any, error) {
	if addr == nil {
		return nil, nil
	}
	return addr.Value()
}
