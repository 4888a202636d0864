package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"estatedesk/internal/auth"
	"estatedesk/internal/config"
	"estatedesk/internal/handler"
	"estatedesk/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	httpMetrics *metrics.HTTPMetrics,
	authHandler *handler.AuthHandler,
	propertyHandler *handler.PropertyHandler,
	userHandler *handler.UserHandler,
	leadHandler *handler.LeadHandler,
	notificationHandler *handler.NotificationHandler,
	favoriteHandler *handler.FavoriteHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpMetrics.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/signup/verify", authHandler.VerifySignup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.GET("/properties", propertyHandler.List)
	api.POST("/leads", leadHandler.CreateInquiry)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Profile routes
	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateProfile)
	secured.POST("/me/email", userHandler.RequestEmailChange)
	secured.POST("/me/email/verify", userHandler.VerifyEmailChange)
	secured.POST("/me/password", userHandler.RequestPasswordChange)
	secured.POST("/me/password/verify", userHandler.VerifyPasswordChange)

	// Property routes. The pending queue registers before the :id route so it
	// is not swallowed by the parameter match.
	secured.GET("/properties/pending", propertyHandler.ListPending)
	secured.GET("/properties/mine", propertyHandler.ListMine)
	secured.POST("/properties", propertyHandler.Create)
	secured.PUT("/properties/:id", propertyHandler.Update)
	secured.PATCH("/properties/:id/status", propertyHandler.Moderate)
	secured.PATCH("/properties/:id/flag", propertyHandler.Flag)
	secured.DELETE("/properties/:id", propertyHandler.Delete)
	api.GET("/properties/:id", propertyHandler.Get)

	// Lead and site visit routes
	secured.GET("/leads", leadHandler.List)
	secured.PATCH("/leads/:id/status", leadHandler.UpdateStatus)
	secured.PATCH("/leads/:id/assign", leadHandler.Assign)
	secured.POST("/site-visits", leadHandler.CreateSiteVisit)
	secured.GET("/site-visits", leadHandler.ListSiteVisits)

	// Notification routes
	secured.GET("/notifications", notificationHandler.List)
	secured.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

	// Favorite routes
	secured.GET("/favorites", favoriteHandler.List)
	secured.POST("/favorites/:id", favoriteHandler.Add)
	secured.DELETE("/favorites/:id", favoriteHandler.Remove)

	// User management routes
	secured.GET("/users", userHandler.List)
	secured.POST("/users/credentials", userHandler.SendCredentials)
	secured.GET("/users/:id", userHandler.Get)
	secured.PATCH("/users/:id/status", userHandler.ToggleStatus)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
