package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/basabecode/tupijama.com-sub001/api/responses"
	"github.com/basabecode/tupijama.com-sub001/api/validators"
	"github.com/basabecode/tupijama.com-sub001/internal/products"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxPageOffset   = 100000
)

// ProductsController serves the public catalog reads and the admin writes.
type ProductsController struct {
	svc  *products.Service
	logg *logger.Logger
}

func NewProductsController(svc *products.Service, logg *logger.Logger) *ProductsController {
	return &ProductsController{svc: svc, logg: logg}
}

func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, maxPageOffset)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	filter := products.ListFilter{
		Query:  validators.SanitizeString(r.URL.Query().Get("q"), 120),
		Limit:  limit,
		Offset: offset,
	}
	views, err := c.svc.List(r.Context(), filter)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, views)
}

func (c *ProductsController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
		return
	}

	view, err := c.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}

func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var req products.CreateProductInput
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	view, err := c.svc.Create(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, view)
}

func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
		return
	}

	var req products.UpdateProductInput
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	view, err := c.svc.Update(r.Context(), id, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
