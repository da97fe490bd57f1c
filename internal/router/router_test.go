package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/auth"
	"sevaportal/internal/catalog"
	"sevaportal/internal/handler"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
	"sevaportal/internal/service"
)

type testServer struct {
	e    *echo.Echo
	auth service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_, err := catalog.Seed(ctx, store.Services())
	require.NoError(t, err)

	jwtService := auth.NewJWTService("router-test")
	tokens := auth.NewMemoryTokenStore()
	authService := service.NewAuthService(store.Users(), jwtService, tokens, nil, 50)

	e := echo.New()
	Register(e, Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(service.NewUserService(store.Users(), nil), service.NewReferralService(store.Users()), "https://seva.example.in"),
		Services: handler.NewServiceHandler(service.NewCatalogService(store.Services(), nil)),
		Orders:   handler.NewOrderHandler(service.NewOrderService(store.Orders(), store.Services(), nil)),
	}, jwtService, tokens)

	return &testServer{e: e, auth: authService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (s *testServer) register(t *testing.T, username, email, referral string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":      username,
		"password":      "secret123",
		"name":          username,
		"email":         email,
		"referral_code": referral,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.Service
	decode(t, rec, &all)
	assert.Len(t, all, len(catalog.Services()))

	rec = s.do(t, http.MethodGet, "/api/services?category="+catalog.CategoryTravel, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var travel []model.Service
	decode(t, rec, &travel)
	require.NotEmpty(t, travel)
	for _, svc := range travel {
		assert.Equal(t, catalog.CategoryTravel, svc.Category)
	}

	rec = s.do(t, http.MethodGet, "/api/services?category=nonexistent", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/services/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	decode(t, rec, &categories)
	assert.Contains(t, categories, catalog.CategoryIdentity)

	rec = s.do(t, http.MethodGet, "/api/services/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/services/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/services/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/user", "/api/user/referral", "/api/orders"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		assert.NotEqual(t, http.StatusOK, rec.Code, path)
	}
	rec := s.do(t, http.MethodGet, "/api/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileAndReferralFlow(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "asha", "asha@example.com", "")
	token := s.login(t, "asha", "secret123")

	rec := s.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.User
	decode(t, rec, &me)
	assert.Equal(t, "asha", me.Username)
	require.NotEmpty(t, me.ReferralCode)

	s.register(t, "ravi", "ravi@example.com", me.ReferralCode)

	rec = s.do(t, http.MethodGet, "/api/user/referral", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary service.ReferralSummary
	decode(t, rec, &summary)
	assert.Equal(t, me.ReferralCode, summary.Code)
	assert.Equal(t, "https://seva.example.in/auth?ref="+me.ReferralCode, summary.Link)
	assert.Equal(t, 50, summary.Rewards)
	assert.Equal(t, int64(1), summary.ReferredCount)

	rec = s.do(t, http.MethodPut, "/api/user/profile", token, map[string]string{
		"name": "Asha Devi", "email": "asha.devi@example.com", "phone": "9876543210",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.User
	decode(t, rec, &updated)
	assert.Equal(t, "Asha Devi", updated.Name)
	assert.Equal(t, "asha.devi@example.com", updated.Email)

	rec = s.do(t, http.MethodPut, "/api/user/profile", token, map[string]string{
		"name": "Asha", "email": "ravi@example.com", "phone": "",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/user/profile", token, map[string]string{
		"name": "  ", "email": "asha@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/user", token, nil)
	decode(t, rec, &me)
	assert.Equal(t, "Asha Devi", me.Name, "failed updates leave the profile unchanged")
}

func TestOrderFlowAndAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	_, err := s.auth.EnsureAdmin(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)
	s.register(t, "meera", "meera@example.com", "")
	s.register(t, "kiran", "kiran@example.com", "")

	userToken := s.login(t, "meera", "secret123")
	otherToken := s.login(t, "kiran", "secret123")
	adminToken := s.login(t, "admin", "admin-pass")

	rec := s.do(t, http.MethodPost, "/api/orders", userToken, map[string]interface{}{"service_id": 1, "notes": "tatkal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order model.Order
	decode(t, rec, &order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)

	rec = s.do(t, http.MethodPost, "/api/orders", userToken, map[string]interface{}{"service_id": 9999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/orders", userToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []model.Order
	decode(t, rec, &mine)
	assert.Len(t, mine, 1)

	path := "/api/orders/" + jsonID(order.ID)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, userToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, adminToken, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/orders", userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/users", userToken, nil).Code)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+jsonID(order.ID)+"/status", adminToken, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+jsonID(order.ID)+"/payment-status", adminToken, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &order)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+jsonID(order.ID)+"/status", adminToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []model.User
	decode(t, rec, &users)
	assert.Len(t, users, 3)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogoutRevokesTokens(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "dev", "dev@example.com", "")

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "dev", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens handler.AuthResponse
	decode(t, rec, &tokens)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", tokens.AccessToken, map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/user", tokens.AccessToken, nil).Code)
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
