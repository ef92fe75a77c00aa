package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appcatalog "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

func newProductRouter(products *MockProductService, carts *MockCartService) *gin.Engine {
	h := NewProductHandler(products, carts)
	return newTestRouter(func(rg *gin.RouterGroup) { h.RegisterRoutes(rg) })
}

func TestProductHandler_Create(t *testing.T) {
	products := new(MockProductService)
	products.On("Create", mock.Anything, mock.MatchedBy(func(req appcatalog.CreateProductRequest) bool {
		return req.Name == "Mate cup"
	})).Return(&appcatalog.ProductResponse{ID: uuid.NewString(), Name: "Mate cup"}, nil)

	engine := newProductRouter(products, new(MockCartService))
	w := performRequest(engine, http.MethodPost, "/products",
		jsonBody(`{"name": "Mate cup", "price": "1500.00", "stock": 3}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	products.AssertExpectations(t)
}

func TestProductHandler_CreateMissingName(t *testing.T) {
	products := new(MockProductService)
	engine := newProductRouter(products, new(MockCartService))

	w := performRequest(engine, http.MethodPost, "/products", jsonBody(`{"stock": 3}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductHandler_GetNotFound(t *testing.T) {
	id := uuid.New()
	products := new(MockProductService)
	products.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	engine := newProductRouter(products, new(MockCartService))
	w := performRequest(engine, http.MethodGet, "/products/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_GetInvalidID(t *testing.T) {
	products := new(MockProductService)
	engine := newProductRouter(products, new(MockCartService))

	w := performRequest(engine, http.MethodGet, "/products/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProductHandler_ListPassesFilter(t *testing.T) {
	products := new(MockProductService)
	page := shared.NewPaginated([]appcatalog.ProductResponse{}, 0, 2, 10)
	products.On("List", mock.Anything, shared.Filter{Page: 2, PageSize: 10}).Return(&page, nil)

	engine := newProductRouter(products, new(MockCartService))
	w := performRequest(engine, http.MethodGet, "/products?page=2&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestProductHandler_Delete(t *testing.T) {
	id := uuid.New()
	products := new(MockProductService)
	products.On("Delete", mock.Anything, id).Return(nil)

	engine := newProductRouter(products, new(MockCartService))
	w := performRequest(engine, http.MethodDelete, "/products/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	products.AssertExpectations(t)
}

func TestProductHandler_ReconcileCart(t *testing.T) {
	id := uuid.New()
	carts := new(MockCartService)
	carts.On("Reconcile", mock.Anything, []appcatalog.CartItem{{ProductID: id, Quantity: 5}}).
		Return(&appcatalog.ReconcileResult{
			Items:    []appcatalog.ReconciledItem{{ProductID: id, Quantity: 2, Clamped: true}},
			Removed:  []uuid.UUID{},
			Adjusted: true,
		}, nil)

	engine := newProductRouter(new(MockProductService), carts)
	body := fmt.Sprintf(`{"items": [{"product_id": "%s", "quantity": 5}]}`, id)
	w := performRequest(engine, http.MethodPost, "/cart/reconcile", jsonBody(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"adjusted":true`)
	carts.AssertExpectations(t)
}
