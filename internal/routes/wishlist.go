package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wishlist"
)

// RegisterWishlistRoutes wires the saved-listings endpoints.
func RegisterWishlistRoutes(r fiber.Router, h *wishlist.Handler) {
	r.Post("/wishlist", h.Add)
	r.Get("/wishlist", h.List)
	r.Patch("/wishlist/:listingId", h.Update)
	r.Delete("/wishlist/:listingId", h.Remove)
}
