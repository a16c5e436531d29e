package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/booking"
)

// RegisterBookingRoutes wires booking creation, the host's booking list and
// lifecycle transitions.
func RegisterBookingRoutes(r fiber.Router, h *booking.Handler, idem fiber.Handler) {
	r.Post("/bookings", idem, h.Create)
	r.Get("/bookings", h.List)
	r.Get("/bookings/:bookingId", h.Get)
	r.Put("/bookings/:bookingId", h.Edit)
	r.Patch("/bookings/:bookingId/:action", h.UpdateStatus)
}
