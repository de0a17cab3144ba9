package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/handler"
	"github.com/skelly37/Rentigo/internal/middleware"
	"github.com/skelly37/Rentigo/internal/model"
)

// RegisterRoutes registers routes that require no authentication at all.
// Currently it exposes only a health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and the /v1/me probe.
// Unauthenticated operations live under /v1/auth; logout accepts either a
// bearer token or a refresh token, so it stays outside the JWT group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: place
// detail, the availability probe and the review listings. These return
// sanitized data for guests and apply no JWT or role middleware.
func RegisterPublic(e *echo.Echo, p *handler.PlaceHandler, rv *handler.ReviewHandler) {
	e.GET("/v1/places/:id", p.Get)
	e.GET("/v1/places/:id/availability", p.Availability)
	e.GET("/v1/places/:id/reviews", rv.List)
	e.GET("/v1/places/:id/reviews/summary", rv.Summary)
}

// RegisterGuest registers the guest-facing reservation and review routes.
// Any authenticated account may book and review; per-record access is
// enforced inside the services.
func RegisterGuest(e *echo.Echo, r *handler.ReservationHandler, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleHost, model.RoleAdmin))

	g.POST("/reservations", r.Create)
	g.GET("/reservations", r.ListMine)
	g.GET("/reservations/:id", r.Get)
	g.POST("/reservations/:id/cancel", r.Cancel)

	g.POST("/places/:id/reviews", rv.Create)
	g.DELETE("/reviews/:id", rv.Delete)
}

// RegisterHost registers place management and the host reservation
// routes. HOST and ADMIN roles are required; ownership of the individual
// place or reservation is checked in the handlers and services.
func RegisterHost(e *echo.Echo, p *handler.PlaceHandler, h *handler.HostHandler, jwtSecret string) {
	g := e.Group("/v1/host")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleHost, model.RoleAdmin))

	g.POST("/places", p.Create)
	g.GET("/places", p.ListMine)
	g.PATCH("/places/:id/status", p.UpdateStatus)
	g.GET("/places/:id/reservations", h.ListPlaceReservations)

	g.POST("/reservations/:id/confirm", h.Confirm)
	g.GET("/reservations", h.ListReservations)
	g.GET("/stats", h.Stats)
}

// RegisterAdmin registers the administrative correction paths.
func RegisterAdmin(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.DELETE("/reservations/:id", r.Delete)
}
