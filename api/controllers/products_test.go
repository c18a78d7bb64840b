package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/basabecode/tupijama.com-sub001/internal/products"
	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

type memoryProducts struct {
	rows       []models.Product
	created    *models.Product
	lastFilter products.ListFilter
}

func (m *memoryProducts) ListActive(_ context.Context, filter products.ListFilter) ([]models.Product, error) {
	m.lastFilter = filter
	return m.rows, nil
}

func (m *memoryProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryProducts) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	m.created = product
	return product, nil
}

func (m *memoryProducts) Update(_ context.Context, id uuid.UUID, _ map[string]any) (*models.Product, error) {
	return m.FindByID(context.Background(), id)
}

func newProductsRouter(repo products.Repository) http.Handler {
	ctrl := NewProductsController(products.NewService(repo), logger.New(logger.Options{ServiceName: "test"}))
	r := chi.NewRouter()
	r.Get("/api/products", ctrl.List)
	r.Get("/api/products/{productID}", ctrl.Detail)
	r.Post("/api/products", ctrl.Create)
	r.Patch("/api/products/{productID}", ctrl.Update)
	return r
}

func TestProductsListResolvesImagePaths(t *testing.T) {
	repo := &memoryProducts{rows: []models.Product{
		{
			ID:       uuid.New(),
			Name:     "Piyama azul",
			Slug:     "piyama-azul",
			Price:    decimal.RequireFromString("49.90"),
			ImageRef: "https://storage.googleapis.com/product-images/1-azul.jpg",
			IsActive: true,
		},
	}}
	router := newProductsRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, "/piyamas/1-azul.jpg", row["image"])
	assert.Equal(t, "49.90", row["price"])
}

func TestProductsListParsesPaginationAndSearch(t *testing.T) {
	repo := &memoryProducts{}
	router := newProductsRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?limit=10&offset=20&q=%20azul%20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, repo.lastFilter.Limit)
	assert.Equal(t, 20, repo.lastFilter.Offset)
	assert.Equal(t, "azul", repo.lastFilter.Query)
}

func TestProductsListDefaultsPageSize(t *testing.T) {
	repo := &memoryProducts{}
	router := newProductsRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultPageSize, repo.lastFilter.Limit)
	assert.Equal(t, 0, repo.lastFilter.Offset)
}

func TestProductsListRejectsBadPagination(t *testing.T) {
	router := newProductsRouter(&memoryProducts{})

	for _, query := range []string{"?limit=abc", "?limit=0", "?limit=9999", "?offset=-1"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestProductsDetailUnknownIsNotFound(t *testing.T) {
	router := newProductsRouter(&memoryProducts{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductsCreate(t *testing.T) {
	repo := &memoryProducts{}
	router := newProductsRouter(repo)

	body := `{"name":"Piyama Rosa","price":"39.99","stock":3}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, "piyama-rosa", repo.created.Slug)
}

func TestProductsCreateRejectsBadPrice(t *testing.T) {
	router := newProductsRouter(&memoryProducts{})

	body := `{"name":"Piyama Rosa","price":"gratis"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
