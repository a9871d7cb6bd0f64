// Package router mounts the HTTP API on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/handler"
)

// DefaultTemplatesPath serves the public system catalog.
const DefaultTemplatesPath = "/v1/templates/defaults"

// RegisterRoutes registers the unauthenticated liveness check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts register and login under /v1/auth and the current
// identity at /v1/me. authn is middleware.Authenticate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me, authn)
}

// RegisterTemplates mounts the template catalog. The default catalog is
// public and served through cache; everything else requires a token.
func RegisterTemplates(e *echo.Echo, t *handler.TemplateHandler, authn, cache echo.MiddlewareFunc) {
	e.GET(DefaultTemplatesPath, t.Defaults, cache)

	g := e.Group("/v1/templates", authn)
	g.GET("", t.List)
	g.POST("", t.Create)
	g.GET("/:id", t.Get)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
}

// RegisterContent mounts generation and the caller's content. limiter is
// the token bucket and applies to generation only.
func RegisterContent(e *echo.Echo, h *handler.ContentHandler, authn, limiter echo.MiddlewareFunc) {
	e.POST("/v1/generate", h.Generate, authn, limiter)

	g := e.Group("/v1/contents", authn)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterAdmin mounts /v1/admin behind authentication and the live admin
// check.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, authn, requireAdmin echo.MiddlewareFunc) {
	g := e.Group("/v1/admin", authn, requireAdmin)
	g.GET("/dashboard", h.Dashboard)

	g.GET("/users", h.ListUsers)
	g.POST("/users/bulk-delete", h.BulkDeleteUsers)
	g.PUT("/users/:id", h.UpdateUser)
	g.POST("/users/:id/reset-password", h.ResetPassword)
	g.PUT("/users/:id/toggle-active", h.ToggleActive)
	g.PUT("/users/:id/toggle-admin", h.ToggleAdmin)
	g.DELETE("/users/:id", h.DeleteUser)

	g.GET("/contents", h.ListContents)
	g.POST("/contents/bulk-delete", h.BulkDeleteContents)
	g.DELETE("/contents/:id", h.DeleteContent)

	g.GET("/templates", h.ListTemplates)
	g.POST("/templates", h.CreateTemplate)
	g.DELETE("/templates/:id", h.DeleteTemplate)

	g.GET("/system/health", h.SystemHealth)
	g.GET("/system/stats", h.SystemStats)
}
