package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/farmbora/farmbora-api/internal/handler"
	"github.com/farmbora/farmbora-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/v1/auth.
// None of them require an existing session; logout and refresh identify
// the session by the refresh token in the request body.  The limiter
// middleware guards all four against credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/refresh", a.Refresh)
}

// RegisterProtected registers every bearer-token endpoint under /api/v1.
// The JWT middleware validates the access token and stores the caller's
// identity in the context before any handler runs.  The profile list is
// additionally wrapped in the response cache.
func RegisterProtected(e *echo.Echo, f *handler.FarmerProfileHandler, b *handler.BuyerProfileHandler, l *handler.ListingHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	auth := e.Group("/api/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Farmer profile endpoints.
	auth.POST("/farmer/profile/create", f.Create)
	auth.PATCH("/farmer/profile/update", f.Update)
	auth.GET("/farmer/profile/details", f.Details)
	auth.GET("/farmer/profile/:id/details", f.DetailsByID)
	auth.GET("/farmer/profiles/list", f.List, cache)
	auth.DELETE("/farmer/profile/delete", f.Delete)

	// Buyer profile endpoints mirror the farmer surface.
	auth.POST("/buyer/profile/create", b.Create)
	auth.PATCH("/buyer/profile/update", b.Update)
	auth.GET("/buyer/profile/details", b.Details)
	auth.GET("/buyer/profile/:id/details", b.DetailsByID)
	auth.GET("/buyer/profiles/list", b.List)
	auth.DELETE("/buyer/profile/delete", b.Delete)

	// Product listings: create/get/list only.  No update or delete is
	// exposed; listings disappear with their owning farmer profile.
	auth.POST("/product/create", l.Create)
	auth.GET("/product/:id/details", l.Details)
	auth.GET("/products/list", l.List)
}
