package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestProductGet(t *testing.T) {
	logg := testControllerLogger()
	productID := uuid.New()

	makeRequest := func(rawID string, stub *stubCatalogService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+rawID, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productId", rawID)
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		ProductGet(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("invalid id", func(t *testing.T) {
		rec := makeRequest("not-a-uuid", &stubCatalogService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubCatalogService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		rec := makeRequest(productID.String(), stub)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCatalogService{product: &catalog.ProductDTO{ID: productID}}
		rec := makeRequest(productID.String(), stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.gotProductID != productID {
			t.Fatalf("expected lookup for %s, got %s", productID, stub.gotProductID)
		}
	})
}

func TestProductsListRejectsBadFilter(t *testing.T) {
	logg := testControllerLogger()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?min_price=cheap", nil)
	rec := httptest.NewRecorder()
	ProductsList(&stubCatalogService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter, got %d", rec.Code)
	}
}

func TestSellerProductCreate(t *testing.T) {
	logg := testControllerLogger()
	sellerID := uuid.New()

	t.Run("rejects bad payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", nil)
		req = req.WithContext(middleware.WithUserID(context.Background(), sellerID))
		rec := httptest.NewRecorder()
		SellerProductCreate(&stubCatalogService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty body, got %d", rec.Code)
		}
	})

	t.Run("passes seller from context", func(t *testing.T) {
		body := `{"name":"Desk Lamp","price":"29.99","category_id":"` + uuid.NewString() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithUserID(context.Background(), sellerID))

		stub := &stubCatalogService{product: &catalog.ProductDTO{ID: uuid.New()}}
		rec := httptest.NewRecorder()
		SellerProductCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotSellerID != sellerID {
			t.Fatalf("expected seller %s, got %s", sellerID, stub.gotSellerID)
		}
	})
}

type stubCatalogService struct {
	product      *catalog.ProductDTO
	getErr       error
	gotProductID uuid.UUID
	gotSellerID  uuid.UUID
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter catalog.Filter) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) ListFeatured(ctx context.Context) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	s.gotProductID = id
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]catalog.ProductDTO, error) {
	s.gotSellerID = sellerID
	return nil, nil
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, dto catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	s.gotSellerID = sellerID
	return s.product, nil
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, dto catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	s.gotSellerID = sellerID
	s.gotProductID = productID
	return s.product, nil
}
