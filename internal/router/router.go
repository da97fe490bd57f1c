package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sevaportal/internal/auth"
	"sevaportal/internal/errors"
	"sevaportal/internal/handler"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Services *handler.ServiceHandler
	Orders   *handler.OrderHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, h Handlers, jwtService *auth.JWTService, tokenStore auth.TokenStore) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	api.GET("/services", h.Services.ListServices)
	api.GET("/services/categories", h.Services.Categories)
	api.GET("/services/:id", h.Services.GetService)

	// Secured routes (require JWT authentication)
	secured := api.Group("", auth.Middleware(jwtService, tokenStore))

	secured.GET("/user", h.User.Me)
	secured.PUT("/user/profile", h.User.UpdateProfile)
	secured.GET("/user/referral", h.User.Referral)

	secured.POST("/orders", h.Orders.CreateOrder)
	secured.GET("/orders", h.Orders.ListMyOrders)
	secured.GET("/orders/:id", h.Orders.GetOrder)

	admin := secured.Group("/admin", RequireAdmin)
	admin.GET("/orders", h.Orders.ListAllOrders)
	admin.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
	admin.PATCH("/orders/:id/payment-status", h.Orders.UpdatePaymentStatus)
	admin.GET("/users", h.User.ListUsers)
}

// RequireAdmin rejects callers whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := auth.FromContext(c)
		if !ok || !claims.IsAdmin() {
			httpErr := errors.MapErrorToHTTP(errors.ErrForbidden)
			return echo.NewHTTPError(http.StatusForbidden, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
