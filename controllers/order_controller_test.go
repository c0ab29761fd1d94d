package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order-admin-service/models"
	"order-admin-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOrderService struct {
	listCalled      int
	searchCalled    int
	updateCalled    int
	lastListQuery   services.ListQuery
	lastSearchQuery services.SearchQuery
	lastOrderID     uuid.UUID
	lastStatus      models.OrderStatus
	updateErr       *services.ServiceError
	processingCount int64
}

func (f *fakeOrderService) ListOrders(_ context.Context, q services.ListQuery) (*services.PageEnvelope, *services.ServiceError) {
	f.listCalled++
	f.lastListQuery = q
	return &services.PageEnvelope{Content: []models.Order{}, Number: q.Offset, Size: q.Size, First: q.Offset == 0, Last: true}, nil
}

func (f *fakeOrderService) SearchOrders(_ context.Context, q services.SearchQuery) (*services.PageEnvelope, *services.ServiceError) {
	f.searchCalled++
	f.lastSearchQuery = q
	return &services.PageEnvelope{Content: []models.Order{}}, nil
}

func (f *fakeOrderService) GetOrderDetail(_ context.Context, orderID uuid.UUID) (*services.OrderDetail, *services.ServiceError) {
	f.lastOrderID = orderID
	return &services.OrderDetail{OrderID: orderID, Steps: models.ProgressSteps(models.StatusProcessing)}, nil
}

func (f *fakeOrderService) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, next models.OrderStatus) (*models.Order, *services.ServiceError) {
	f.updateCalled++
	f.lastOrderID = orderID
	f.lastStatus = next
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Order{ID: orderID, Status: next}, nil
}

func (f *fakeOrderService) ProcessingCount(_ context.Context) (int64, *services.ServiceError) {
	return f.processingCount, nil
}

func setupRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	oc := NewOrderController(svc)
	r := gin.New()
	r.GET("/api/order/", oc.GetOrders)
	r.GET("/api/order/filter", oc.GetOrdersByStatus)
	r.GET("/api/order/search", oc.SearchOrders)
	r.GET("/api/order/processing", oc.GetProcessingCount)
	r.POST("/api/order/status", oc.UpdateOrderStatus)
	r.GET("/api/order-item/", oc.GetOrderItems)
	return r
}

func doRequest(r *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOrders_Defaults(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.listCalled)
	assert.Equal(t, 0, svc.lastListQuery.Offset)
	assert.Equal(t, 10, svc.lastListQuery.Size)
	assert.Empty(t, svc.lastListQuery.SortBy)
	assert.Nil(t, svc.lastListQuery.Status)
}

func TestGetOrders_SortMapping(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/?sortBy=total&orderDirection=DESC&offset=2&size=20", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "total", svc.lastListQuery.SortBy)
	assert.Equal(t, "DESC", svc.lastListQuery.Direction)
	assert.Equal(t, 2, svc.lastListQuery.Offset)
	assert.Equal(t, 20, svc.lastListQuery.Size)
}

func TestGetOrders_RejectsUnknownSortKey(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/?sortBy=customerName", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.listCalled)
}

func TestGetOrdersByStatus(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/filter?status=SHIPPED", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, svc.lastListQuery.Status)
	assert.Equal(t, models.StatusShipped, *svc.lastListQuery.Status)

	w = doRequest(r, http.MethodGet, "/api/order/filter?status=BOGUS", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/order/filter", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchOrders_RequiresTermAndBothDates(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	// a search term alone never activates the search path
	w := doRequest(r, http.MethodGet, "/api/order/search?searchValue=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.searchCalled)

	// one date is still not enough
	w = doRequest(r, http.MethodGet, "/api/order/search?searchValue=abc&startDate=2025-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.searchCalled)

	// term plus both dates activates it
	w = doRequest(r, http.MethodGet, "/api/order/search?searchValue=abc&startDate=2025-06-01&endDate=2025-06-30", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.searchCalled)
	assert.Equal(t, "abc", svc.lastSearchQuery.SearchValue)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), svc.lastSearchQuery.StartDate)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), svc.lastSearchQuery.EndDate)
}

func TestSearchOrders_RejectsBadDates(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/search?searchValue=abc&startDate=06/01/2025&endDate=2025-06-30", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/order/search?searchValue=abc&startDate=2025-06-30&endDate=2025-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus_QueryParams(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	orderID := uuid.New()
	w := doRequest(r, http.MethodPost, "/api/order/status?orderId="+orderID.String()+"&orderStatus=SHIPPED", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderID, svc.lastOrderID)
	assert.Equal(t, models.StatusShipped, svc.lastStatus)
}

func TestUpdateOrderStatus_Validation(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/order/status?orderStatus=SHIPPED", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/order/status?orderId=not-a-uuid&orderStatus=SHIPPED", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/order/status?orderId="+uuid.NewString()+"&orderStatus=LOST", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, svc.updateCalled)
}

func TestUpdateOrderStatus_ConflictPassthrough(t *testing.T) {
	svc := &fakeOrderService{
		updateErr: &services.ServiceError{StatusCode: 409, Message: "Illegal status transition"},
	}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/order/status?orderId="+uuid.NewString()+"&orderStatus=DELIVERED", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetOrderItems_QueryAndHeaderFallback(t *testing.T) {
	svc := &fakeOrderService{}
	r := setupRouter(svc)

	orderID := uuid.New()
	w := doRequest(r, http.MethodGet, "/api/order-item/?orderId="+orderID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderID, svc.lastOrderID)

	// legacy header carries the ID when the query param is absent
	headerID := uuid.New()
	w = doRequest(r, http.MethodGet, "/api/order-item/", map[string]string{"X-Order-Id": headerID.String()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, headerID, svc.lastOrderID)

	w = doRequest(r, http.MethodGet, "/api/order-item/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProcessingCount(t *testing.T) {
	svc := &fakeOrderService{processingCount: 7}
	r := setupRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/order/processing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 7}`, w.Body.String())
}
