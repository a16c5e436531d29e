package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/auth"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/middleware"
)

// RegisterAuthRoutes wires registration, login and token endpoints. Login is
// rate limited per submitted email to slow credential stuffing.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, d Deps) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", middleware.RateLimit(d.Cache, "login", 5, middleware.EmailKey), h.Login)
	r.Post("/auth/refresh", h.Refresh)
}
