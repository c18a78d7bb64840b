package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basabecode/tupijama.com-sub001/api/middleware"
	"github.com/basabecode/tupijama.com-sub001/api/responses"
	"github.com/basabecode/tupijama.com-sub001/api/validators"
	"github.com/basabecode/tupijama.com-sub001/internal/orders"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/types"
)

// OrdersController serves the authenticated order endpoints. Every handler
// scopes its queries to the caller taken from the request context.
type OrdersController struct {
	repo orders.Repository
	logg *logger.Logger
}

func NewOrdersController(repo orders.Repository, logg *logger.Logger) *OrdersController {
	return &OrdersController{repo: repo, logg: logg}
}

type createOrderRequest struct {
	Items           []orders.CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *types.Address           `json:"shipping_address"`
	BillingAddress  *types.Address           `json:"billing_address"`
}

// List returns the caller's orders, newest first.
func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	views, err := c.repo.ListByUser(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error()))
		return
	}
	responses.WriteSuccess(w, views)
}

// Detail returns one of the caller's orders. Any failure, including an
// order that exists but belongs to someone else, comes back as not found.
func (c *OrdersController) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}

	view, err := c.repo.FindOwned(r.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found"))
		return
	}
	responses.WriteSuccess(w, view)
}

// Create places an order through the atomic creation procedure and returns
// the new order id. Stock or pricing failures surface with the database
// message intact.
func (c *OrdersController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req createOrderRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if len(req.Items) == 0 {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item"))
		return
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil || item.Qty <= 0 {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "each item needs a product_id and a positive qty"))
			return
		}
	}

	orderID, err := c.repo.Create(r.Context(), orders.CreateOrderInput{
		UserID:          userID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error()))
		return
	}

	responses.WriteSuccess(w, map[string]any{"order_id": orderID})
}

// callerID reads the authenticated user id seeded by the auth middleware.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return id, nil
}
