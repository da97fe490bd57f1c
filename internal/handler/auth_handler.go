package handler

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"sevaportal/internal/errors"
	"sevaportal/internal/service"
)

// AuthHandler serves sign-up, sign-in and token lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is a sign-up. ReferralCode is optional and unknown codes
// are ignored.
type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Password     string `json:"password" validate:"required,min=6"`
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address      string `json:"address"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=16"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token for refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         interface{} `json:"user,omitempty"`
}

// authFailure maps auth service errors; anything unexpected becomes a 500
// carrying fallbackCode.
func authFailure(err error, fallbackCode string) error {
	var status int
	var code string
	switch {
	case stderrors.Is(err, service.ErrUserAlreadyExists):
		status, code = http.StatusConflict, "USER_ALREADY_EXISTS"
	case stderrors.Is(err, service.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case stderrors.Is(err, service.ErrInvalidRefreshToken):
		status, code = http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"
	default:
		status, code = http.StatusInternalServerError, fallbackCode
		err = stderrors.New("internal server error")
	}
	return echo.NewHTTPError(status, errors.ErrorResponse{Error: err.Error(), Code: code})
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account with a fresh referral code. A known referral_code credits its owner.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return authFailure(err, "REGISTRATION_FAILED")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, refresh, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return authFailure(err, "LOGIN_FAILED")
	}
	return c.JSON(http.StatusOK, AuthResponse{AccessToken: access, RefreshToken: refresh, User: user})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return authFailure(err, "REFRESH_FAILED")
	}
	return c.JSON(http.StatusOK, AuthResponse{AccessToken: access})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the refresh token and, when an Authorization header is sent, the access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	bearer := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken, bearer); err != nil {
		return authFailure(err, "LOGOUT_FAILED")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
