package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/middleware"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/withdrawal"
)

// RegisterWithdrawalRoutes wires the OTP-gated withdrawal flow, payout method
// management, the provider catalog and the operator transitions.
func RegisterWithdrawalRoutes(r fiber.Router, h *withdrawal.Handler, d Deps, idem fiber.Handler) {
	r.Post("/withdrawals/initiate", h.Initiate)
	r.Post("/withdrawals/resend-otp", middleware.RateLimit(d.Cache, "otp-resend", d.Cfg.ResendPerMinute, middleware.UserKey), h.Resend)
	r.Post("/withdrawals/verify", idem, h.Verify)
	r.Post("/withdrawals/cancel-otp", h.CancelOTP)
	r.Get("/withdrawals", h.History)

	r.Get("/withdrawal-methods", h.Methods)
	r.Post("/withdrawal-methods", h.AddMethod)
	r.Put("/withdrawal-methods/:methodId/default", h.SetDefaultMethod)
	r.Delete("/withdrawal-methods/:methodId", h.DeleteMethod)

	r.Get("/withdrawal-providers", h.Providers)

	admin := r.Group("/admin", middleware.RequireRole(identity.RoleAdmin))
	admin.Patch("/withdrawals/:requestId/:action", h.UpdateStatus)
}
