package controllers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"order-relay/controllers"
	"order-relay/models"
)

// --- Mock Normalizer ---

type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(ctx context.Context, raw map[string]any) (*models.OrderSummary, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderSummary), args.Error(1)
}

// --- Mock Workflow ---

type MockWorkflow struct {
	mock.Mock
}

func (m *MockWorkflow) Present(ctx context.Context, summary *models.OrderSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockWorkflow) SendTest(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflow) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

// --- helpers ---

func newRouter(normalizer *MockNormalizer, workflow *MockWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := controllers.NewWebhookController(normalizer, workflow, zap.NewNop())
	router := gin.New()
	router.POST("/webhook", controller.HandleWebhook)
	router.POST("/test-webhook", controller.TestWebhook)
	router.GET("/health", controller.Health)
	router.GET("/", controller.Liveness)
	return router
}

func summaryFixture() *models.OrderSummary {
	return &models.OrderSummary{
		OrderID:            "42",
		CustomerEmail:      "a@b.com",
		ProductDescription: "Rank X",
		Status:             "processing",
		TotalAmount:        "9.99",
		MinecraftUsername:  "Unknown",
	}
}

// --- Tests ---

func TestHandleWebhook(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		summary := summaryFixture()
		mockNormalizer.On("Normalize", mock.Anything, mock.Anything).Return(summary, nil).Once()
		mockWorkflow.On("Present", mock.Anything, summary).Return(nil).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		payload := `{"billing":{"email":"a@b.com"},"line_items":[{"name":"Rank X"}],"id":42}`
		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Webhook received", recorder.Body.String())
		mockNormalizer.AssertExpectations(t)
		mockWorkflow.AssertExpectations(t)
	})

	t.Run("Failure - Unrecognized payload - 400 with no dispatch", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		vErr := models.NewValidationError(models.ValidationUnrecognizedShape, "invalid order format", nil)
		mockNormalizer.On("Normalize", mock.Anything, mock.Anything).Return(nil, vErr).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Invalid order format.", recorder.Body.String())
		mockWorkflow.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Missing email - 400 distinct message", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		vErr := models.NewValidationError(models.ValidationMissingEmail, "customer email is required", nil)
		mockNormalizer.On("Normalize", mock.Anything, mock.Anything).Return(nil, vErr).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		payload := `{"billing":{},"line_items":[{"name":"Rank X"}]}`
		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Customer email is required.", recorder.Body.String())
	})

	t.Run("Failure - Upstream fetch error - 500", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		mockNormalizer.On("Normalize", mock.Anything, mock.Anything).
			Return(nil, errors.New("fetch order 7: connection refused")).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"id":7}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		mockWorkflow.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Dispatch error - 500", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		mockNormalizer.On("Normalize", mock.Anything, mock.Anything).Return(summaryFixture(), nil).Once()
		mockWorkflow.On("Present", mock.Anything, mock.Anything).Return(errors.New("channel unreachable")).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		payload := `{"email":"a@b.com"}`
		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("Failure - Unreadable body - 400", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		router := newRouter(mockNormalizer, mockWorkflow)

		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString("not json"))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockNormalizer.AssertNotCalled(t, "Normalize", mock.Anything, mock.Anything)
	})

	t.Run("Success - Form-encoded body", func(t *testing.T) {
		// Arrange
		mockNormalizer := new(MockNormalizer)
		mockWorkflow := new(MockWorkflow)
		mockNormalizer.On("Normalize", mock.Anything, mock.MatchedBy(func(raw map[string]any) bool {
			return raw["customer_email"] == "a@b.com"
		})).Return(summaryFixture(), nil).Once()
		mockWorkflow.On("Present", mock.Anything, mock.Anything).Return(nil).Once()
		router := newRouter(mockNormalizer, mockWorkflow)

		form := url.Values{"customer_email": {"a@b.com"}, "status": {"pending"}}
		req, _ := http.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockNormalizer.AssertExpectations(t)
	})
}

func TestTestWebhook(t *testing.T) {
	t.Run("Success - 200 JSON", func(t *testing.T) {
		mockWorkflow := new(MockWorkflow)
		mockWorkflow.On("SendTest", mock.Anything).Return(nil).Once()
		router := newRouter(new(MockNormalizer), mockWorkflow)

		req, _ := http.NewRequest(http.MethodPost, "/test-webhook", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"success":true`)
		mockWorkflow.AssertExpectations(t)
	})

	t.Run("Failure - 500", func(t *testing.T) {
		mockWorkflow := new(MockWorkflow)
		mockWorkflow.On("SendTest", mock.Anything).Return(errors.New("channel unreachable")).Once()
		router := newRouter(new(MockNormalizer), mockWorkflow)

		req, _ := http.NewRequest(http.MethodPost, "/test-webhook", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("Bot connected", func(t *testing.T) {
		mockWorkflow := new(MockWorkflow)
		mockWorkflow.On("Connected").Return(true).Once()
		router := newRouter(new(MockNormalizer), mockWorkflow)

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"bot_status":"connected"`)
		assert.Contains(t, recorder.Body.String(), `"status":"healthy"`)
	})

	t.Run("Bot disconnected", func(t *testing.T) {
		mockWorkflow := new(MockWorkflow)
		mockWorkflow.On("Connected").Return(false).Once()
		router := newRouter(new(MockNormalizer), mockWorkflow)

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"bot_status":"disconnected"`)
	})
}

func TestLiveness(t *testing.T) {
	router := newRouter(new(MockNormalizer), new(MockWorkflow))

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "running")
}
