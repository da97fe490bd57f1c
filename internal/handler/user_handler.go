package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sevaportal/internal/service"
)

// UserHandler serves the signed-in user's profile and referral card.
type UserHandler struct {
	users        service.UserService
	referrals    service.ReferralService
	publicOrigin string
}

// NewUserHandler creates a user handler. An empty publicOrigin means the
// referral link uses the origin of the incoming request.
func NewUserHandler(users service.UserService, referrals service.ReferralService, publicOrigin string) *UserHandler {
	return &UserHandler{users: users, referrals: referrals, publicOrigin: publicOrigin}
}

// UpdateProfileRequest is the body of PUT /api/user/profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Me godoc
// @Summary Current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update name, email and phone
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), claims.UserID, service.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Referral godoc
// @Summary Referral code, shareable link and rewards
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ReferralSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/referral [get]
func (h *UserHandler) Referral(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	summary, err := h.referrals.Summary(c.Request().Context(), claims.UserID, h.origin(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) origin(c echo.Context) string {
	if h.publicOrigin != "" {
		return h.publicOrigin
	}
	return c.Scheme() + "://" + c.Request().Host
}
