package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/thuanhighclean/cleaning-service/internal/api/http"
	"github.com/thuanhighclean/cleaning-service/internal/api/http/handlers"
	"github.com/thuanhighclean/cleaning-service/internal/auth"
	"github.com/thuanhighclean/cleaning-service/internal/config"
	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/internal/events"
	"github.com/thuanhighclean/cleaning-service/internal/observability"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/internal/service"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
)

type memMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	nextID   int
}

func (m *memMessageRepo) Create(_ context.Context, message *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	message.ID = fmt.Sprintf("msg-%d", m.nextID)
	message.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	m.messages = append(m.messages, *message)
	return nil
}

func (m *memMessageRepo) ListByCreated(_ context.Context) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Message, len(m.messages))
	copy(result, m.messages)
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *memMessageRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []domain.Order
	nextID int
}

func (m *memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	order.ID = fmt.Sprintf("order-%d", m.nextID)
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memOrderRepo) ListByDate(_ context.Context, direction repository.SortDirection) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Order, len(m.orders))
	copy(result, m.orders)
	sort.Slice(result, func(i, j int) bool {
		if direction == repository.SortDescending {
			return result[i].DateOfOrder.After(result[j].DateOfOrder)
		}
		return result[i].DateOfOrder.Before(result[j].DateOfOrder)
	})
	return result, nil
}

func (m *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			order := m.orders[i]
			return &order, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memOrderRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memStore struct {
	mu      sync.Mutex
	nextKey int
	deletes []string
}

func (m *memStore) Upload(_ context.Context, _ storage.File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextKey++
	return fmt.Sprintf("https://bucket.s3.region.amazonaws.com/key-%d", m.nextKey), nil
}

func (m *memStore) UploadMany(ctx context.Context, files []storage.File) []storage.UploadResult {
	results := make([]storage.UploadResult, len(files))
	for i, file := range files {
		url, err := m.Upload(ctx, file)
		results[i] = storage.UploadResult{URL: url, Err: err}
	}
	return results
}

func (m *memStore) Delete(_ context.Context, publicURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, publicURL)
	return nil
}

type testEnv struct {
	app       *fiber.App
	orderRepo *memOrderRepo
}

func newTestApp(t *testing.T) *testEnv {
	t.Helper()

	hash, err := auth.HashPassword("admin-pass", 4)
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	orderRepo := &memOrderRepo{}
	messageRepo := &memMessageRepo{}
	store := &memStore{}

	enforcer := service.NewRetentionEnforcer(orderRepo, store, nil, dispatcher, logger, metrics, 20)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		Store:      store,
		Enforcer:   enforcer,
		Dispatcher: dispatcher,
		Logger:     logger,
		MaxGallery: 3,
	})
	messageService := service.NewMessageService(messageRepo, dispatcher)
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "router-test-secret",
		AccessTokenTTLMinutes: 60,
		AdminUsername:         "admin",
		AdminPasswordHash:     hash,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("cleaning-service", "test", nil, nil),
		Messages:       handlers.NewMessagesHandler(messageService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Admin:          handlers.NewAdminHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	return &testEnv{app: app, orderRepo: orderRepo}
}

func (e *testEnv) login(t *testing.T, username, password string) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	status, body := e.login(t, "admin", "admin-pass")
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAdminLogin(t *testing.T) {
	env := newTestApp(t)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		status, body := env.login(t, "admin", "admin-pass")
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("bad credentials yield a message, never a token", func(t *testing.T) {
		status, body := env.login(t, "admin", "nope")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Empty(t, body["token"])
		assert.NotEmpty(t, body["message"])
	})
}

func TestTokenCheckEndpoint(t *testing.T) {
	env := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+env.adminToken(t))
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMessageEndpoints(t *testing.T) {
	env := newTestApp(t)

	create := func(name string) string {
		body, err := json.Marshal(map[string]string{
			"nameOfCustomer": name,
			"phone":          "0900000001",
			"message":        "please call back",
			"service":        "sofa-clean",
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var parsed struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		return parsed.Data.ID
	}

	first := create("First Customer")
	create("Second Customer")

	t.Run("list is ascending by creation time", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/message", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var parsed struct {
			Data []struct {
				NameOfCustomer string `json:"nameOfCustomer"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		require.Len(t, parsed.Data, 2)
		assert.Equal(t, "First Customer", parsed.Data[0].NameOfCustomer)
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader([]byte(`{"phone":"1"}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/message/"+first, nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		req = httptest.NewRequest(http.MethodDelete, "/api/message/"+first, nil)
		req.Header.Set("Authorization", "Bearer "+env.adminToken(t))
		resp, err = env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func multipartOrder(t *testing.T, date string, galleryCount int) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := map[string]string{
		"nameOfCustomer": "Nguyen Van A",
		"phone":          "0900000001",
		"address":        "12 Tran Phu",
		"service":        "deep-clean",
		"dateOfOrder":    date,
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	writeImage := func(field, name string) {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader([]byte("fake-image-bytes")))
		require.NoError(t, err)
	}

	writeImage("mainBeforeImg", "main-before.jpg")
	writeImage("mainAfterImg", "main-after.jpg")
	for i := 0; i < galleryCount; i++ {
		writeImage("beforeImgs", fmt.Sprintf("before-%d.jpg", i))
		writeImage("afterImgs", fmt.Sprintf("after-%d.jpg", i))
	}

	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestOrderEndpoints(t *testing.T) {
	env := newTestApp(t)
	token := env.adminToken(t)

	t.Run("create requires admin", func(t *testing.T) {
		body, contentType := multipartOrder(t, "2024-05-01", 1)
		req := httptest.NewRequest(http.MethodPost, "/api/order", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	var createdID string
	t.Run("create stores images and record", func(t *testing.T) {
		body, contentType := multipartOrder(t, "2024-05-01", 2)
		req := httptest.NewRequest(http.MethodPost, "/api/order", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var parsed struct {
			Data struct {
				ID            string   `json:"id"`
				MainBeforeImg string   `json:"mainBeforeImg"`
				BeforeImgs    []string `json:"beforeImgs"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.NotEmpty(t, parsed.Data.ID)
		assert.NotEmpty(t, parsed.Data.MainBeforeImg)
		assert.Len(t, parsed.Data.BeforeImgs, 2)
		createdID = parsed.Data.ID
	})

	t.Run("get returns the order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/"+createdID, nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete of unknown id is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/order/does-not-exist", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete removes the order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/order/"+createdID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		req = httptest.NewRequest(http.MethodGet, "/api/order/"+createdID, nil)
		resp, err = env.app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("listing is descending by order date", func(t *testing.T) {
		for _, date := range []string{"2024-05-03", "2024-05-02", "2024-05-04"} {
			body, contentType := multipartOrder(t, date, 0)
			req := httptest.NewRequest(http.MethodPost, "/api/order", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := env.app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/order", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var parsed struct {
			Data []struct {
				DateOfOrder time.Time `json:"dateOfOrder"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		require.Len(t, parsed.Data, 3)
		for i := 1; i < len(parsed.Data); i++ {
			assert.True(t, parsed.Data[i-1].DateOfOrder.After(parsed.Data[i].DateOfOrder))
		}
	})
}
