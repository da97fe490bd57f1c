package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/auth"
	"sevaportal/internal/errors"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
	"sevaportal/internal/service"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i interface{}) error { return s.v.Struct(i) }

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func seedUser(t *testing.T, store *repository.MemoryStore) *model.User {
	t.Helper()
	u := &model.User{Username: "asha", Name: "Asha", Email: "asha@example.com", ReferralCode: "AB12CD34"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func withClaims(c echo.Context, u *model.User) {
	c.Set(auth.ContextKey, &auth.Claims{UserID: u.ID, Username: u.Username, Role: u.Role})
}

func TestUserHandler_ReferralUsesRequestOriginByDefault(t *testing.T) {
	store := repository.NewMemoryStore()
	u := seedUser(t, store)
	h := NewUserHandler(service.NewUserService(store.Users(), nil), service.NewReferralService(store.Users()), "")

	c, rec := newContext(http.MethodGet, "/api/user/referral", "")
	c.Request().Host = "portal.local:8080"
	withClaims(c, u)

	require.NoError(t, h.Referral(c))
	var summary service.ReferralSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "http://portal.local:8080/auth?ref=AB12CD34", summary.Link)
}

func TestUserHandler_ReferralPrefersPublicOrigin(t *testing.T) {
	store := repository.NewMemoryStore()
	u := seedUser(t, store)
	h := NewUserHandler(service.NewUserService(store.Users(), nil), service.NewReferralService(store.Users()), "https://seva.example.in/")

	c, rec := newContext(http.MethodGet, "/api/user/referral", "")
	withClaims(c, u)

	require.NoError(t, h.Referral(c))
	assert.Contains(t, rec.Body.String(), `"referral_link":"https://seva.example.in/auth?ref=AB12CD34"`)
}

func TestUserHandler_MissingClaims(t *testing.T) {
	store := repository.NewMemoryStore()
	h := NewUserHandler(service.NewUserService(store.Users(), nil), service.NewReferralService(store.Users()), "")

	c, _ := newContext(http.MethodGet, "/api/user", "")
	err := h.Me(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestUserHandler_UpdateProfileMapsErrors(t *testing.T) {
	store := repository.NewMemoryStore()
	u := seedUser(t, store)
	h := NewUserHandler(service.NewUserService(store.Users(), nil), service.NewReferralService(store.Users()), "")

	c, _ := newContext(http.MethodPut, "/api/user/profile", `{"name":"Asha","email":"not-an-email","phone":""}`)
	withClaims(c, u)

	err := h.UpdateProfile(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	body, ok := httpErr.Message.(errors.ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, "INVALID_PROFILE", body.Code)
}

func TestServiceHandler_GetServiceRejectsBadID(t *testing.T) {
	store := repository.NewMemoryStore()
	h := NewServiceHandler(service.NewCatalogService(store.Services(), nil))

	for _, id := range []string{"abc", "0", "-3"} {
		c, _ := newContext(http.MethodGet, "/api/services/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)

		err := h.GetService(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, id)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code, id)
	}
}

func TestOrderHandler_UpdateStatusValidatesBody(t *testing.T) {
	store := repository.NewMemoryStore()
	h := NewOrderHandler(service.NewOrderService(store.Orders(), store.Services(), nil))

	c, _ := newContext(http.MethodPatch, "/api/admin/orders/1/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.UpdateStatus(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestAuthFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate", service.ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"bad password", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"stale refresh", service.ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError, "LOGIN_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *echo.HTTPError
			require.ErrorAs(t, authFailure(tt.err, "LOGIN_FAILED"), &httpErr)
			assert.Equal(t, tt.status, httpErr.Code)
			body := httpErr.Message.(errors.ErrorResponse)
			assert.Equal(t, tt.code, body.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
			}
		})
	}
}
