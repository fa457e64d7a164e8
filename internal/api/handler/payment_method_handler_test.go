package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
)

type MockPaymentMethodService struct {
	mock.Mock
}

func (m *MockPaymentMethodService) AddMethod(ctx context.Context, method *payment.Method) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodService) ListMethods(ctx context.Context, consumerID int64) ([]*payment.Method, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Method), args.Error(1)
}

func (m *MockPaymentMethodService) SetDefault(ctx context.Context, consumerID, methodID int64) error {
	args := m.Called(ctx, consumerID, methodID)
	return args.Error(0)
}

func (m *MockPaymentMethodService) DeleteMethod(ctx context.Context, consumerID, methodID int64) error {
	args := m.Called(ctx, consumerID, methodID)
	return args.Error(0)
}

var _ service.PaymentMethodService = (*MockPaymentMethodService)(nil)

func postMethod(t *testing.T, router http.Handler, body AddPaymentMethodRequest) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/payment-methods", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func strPtr(s string) *string { return &s }

func TestPaymentMethodHandler_Create(t *testing.T) {
	consumerID := int64(10)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("AddMethod", mock.Anything, mock.AnythingOfType("*payment.Method")).Return(nil)

		router := setupTestRouter(consumerID)
		router.POST("/payment-methods", handler.Create)

		rr := postMethod(t, router, AddPaymentMethodRequest{
			MethodName:  "wallet",
			IsDefault:   true,
			WalletEmail: strPtr("consumer@example.com"),
		})

		assert.Equal(t, http.StatusCreated, rr.Code)

		m := mockService.Calls[0].Arguments.Get(1).(*payment.Method)
		assert.Equal(t, consumerID, m.ConsumerID)
		assert.Equal(t, payment.ChannelWallet, m.Channel)
		assert.True(t, m.IsDefault)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownChannel", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		router := setupTestRouter(consumerID)
		router.POST("/payment-methods", handler.Create)

		rr := postMethod(t, router, AddPaymentMethodRequest{MethodName: "cheque"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "AddMethod", mock.Anything, mock.Anything)
	})

	t.Run("MissingChannelDetails", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		router := setupTestRouter(consumerID)
		router.POST("/payment-methods", handler.Create)

		rr := postMethod(t, router, AddPaymentMethodRequest{
			MethodName: "bank",
			BankName:   strPtr("City Bank"),
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "AddMethod", mock.Anything, mock.Anything)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("AddMethod", mock.Anything, mock.AnythingOfType("*payment.Method")).
			Return(errors.New("db down"))

		router := setupTestRouter(consumerID)
		router.POST("/payment-methods", handler.Create)

		rr := postMethod(t, router, AddPaymentMethodRequest{
			MethodName:  "wallet",
			WalletEmail: strPtr("consumer@example.com"),
		})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestPaymentMethodHandler_List(t *testing.T) {
	consumerID := int64(10)

	mockService := new(MockPaymentMethodService)
	handler := NewPaymentMethodHandler(testLogger(), mockService)

	methods := []*payment.Method{
		{ID: 7, ConsumerID: consumerID, Channel: payment.ChannelWallet, IsDefault: true, WalletEmail: strPtr("consumer@example.com")},
		{ID: 8, ConsumerID: consumerID, Channel: payment.ChannelBank, BankName: strPtr("City Bank"), AccountNum: strPtr("0012345678")},
	}
	mockService.On("ListMethods", mock.Anything, consumerID).Return(methods, nil)

	router := setupTestRouter(consumerID)
	router.GET("/payment-methods", handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/payment-methods", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestPaymentMethodHandler_SetDefault(t *testing.T) {
	consumerID := int64(10)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("SetDefault", mock.Anything, consumerID, int64(7)).Return(nil)

		router := setupTestRouter(consumerID)
		router.PUT("/payment-methods/:id/default", handler.SetDefault)

		req, _ := http.NewRequest(http.MethodPut, "/payment-methods/7/default", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("SetDefault", mock.Anything, consumerID, int64(7)).
			Return(payment.ErrMethodNotFound{MethodID: 7})

		router := setupTestRouter(consumerID)
		router.PUT("/payment-methods/:id/default", handler.SetDefault)

		req, _ := http.NewRequest(http.MethodPut, "/payment-methods/7/default", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		router := setupTestRouter(consumerID)
		router.PUT("/payment-methods/:id/default", handler.SetDefault)

		req, _ := http.NewRequest(http.MethodPut, "/payment-methods/zero/default", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentMethodHandler_Delete(t *testing.T) {
	consumerID := int64(10)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("DeleteMethod", mock.Anything, consumerID, int64(7)).Return(nil)

		router := setupTestRouter(consumerID)
		router.DELETE("/payment-methods/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/payment-methods/7", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockPaymentMethodService)
		handler := NewPaymentMethodHandler(testLogger(), mockService)

		mockService.On("DeleteMethod", mock.Anything, consumerID, int64(7)).
			Return(payment.ErrMethodNotFound{MethodID: 7})

		router := setupTestRouter(consumerID)
		router.DELETE("/payment-methods/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/payment-methods/7", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}
