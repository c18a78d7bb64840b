package products

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/basabecode/tupijama.com-sub001/internal/images"
	"github.com/basabecode/tupijama.com-sub001/pkg/db"
	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// CreateProductInput carries the fields accepted when creating a catalog entry.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=160"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	Price       string `json:"price" validate:"required"`
	ImageRef    string `json:"image_ref" validate:"omitempty,max=512"`
	Stock       int    `json:"stock" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateProductInput carries optional fields for partial updates.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=160"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Price       *string `json:"price"`
	ImageRef    *string `json:"image_ref" validate:"omitempty,max=512"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// ProductView is the API shape of a catalog entry. Image is the display
// path after resolution, never the raw stored reference.
type ProductView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service exposes catalog operations over a Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the active catalog with display-ready image paths.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ProductView, error) {
	rows, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error())
	}
	views := make([]ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, viewFromModel(&rows[i]))
	}
	return views, nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error())
	}
	view := viewFromModel(row)
	return &view, nil
}

// Create validates and stores a new catalog entry.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	row := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		ImageRef:    strings.TrimSpace(input.ImageRef),
		Stock:       input.Stock,
		IsActive:    active,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error())
	}
	view := viewFromModel(created)
	return &view, nil
}

// Update applies a partial update to an existing entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*input.Price))
		if err != nil || price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
		}
		updates["price"] = price
	}
	if input.ImageRef != nil {
		updates["image_ref"] = strings.TrimSpace(*input.ImageRef)
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error())
	}
	view := viewFromModel(row)
	return &view, nil
}

// Slugify lowercases a name and collapses runs of non-alphanumerics to
// single hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

func viewFromModel(row *models.Product) ProductView {
	return ProductView{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		Price:       row.Price.StringFixed(2),
		Image:       images.Resolve(row.ImageRef),
		Stock:       row.Stock,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
	}
}
