package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	resolver *auth.SessionResolver,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	foodHandler *handler.FoodHandler,
	orderHandler *handler.OrderHandler,
	recHandler *handler.RecommendationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth endpoints stay outside the session middleware: a stale or broken
	// cookie must never block logging in or out.
	api.POST("/register/", authHandler.Register)
	api.POST("/login/", authHandler.Login)
	api.POST("/logout/", authHandler.Logout)
	api.POST("/token/refresh/", authHandler.Refresh)

	// Everything else resolves the cookie session first. Anonymous requests
	// pass through with no identity; the access policy decides per operation.
	secured := api.Group("", SessionMiddleware(resolver))

	secured.GET("/users/me/", userHandler.Me)
	secured.PATCH("/users/me/", userHandler.UpdateMe)

	secured.GET("/food-items/", foodHandler.List)
	secured.POST("/food-items/", foodHandler.Create)
	secured.GET("/food-items/:id/", foodHandler.Get)
	secured.PATCH("/food-items/:id/", foodHandler.Update)
	secured.DELETE("/food-items/:id/", foodHandler.Delete)

	secured.GET("/orders/", orderHandler.List)
	secured.POST("/orders/", orderHandler.Create)
	secured.GET("/orders/:id/", orderHandler.Get)
	secured.PATCH("/orders/:id/", orderHandler.UpdateStatus)

	secured.GET("/recommendations/", recHandler.List)
}

// SessionMiddleware resolves the access-token cookie to a user and stores it
// on the request context. Invalid tokens are rejected here with 401; absent
// tokens continue anonymously.
func SessionMiddleware(resolver *auth.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolver.Resolve(c.Request().Context(), c.Request())
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			handler.SetCurrentUser(c, user)
			return next(c)
		}
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
