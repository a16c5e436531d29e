package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/schedule"
)

// RegisterListingRoutes wires the listing wizard, media, publication and the
// per-listing calendar.
func RegisterListingRoutes(r fiber.Router, h *listing.Handler, sched *schedule.Handler) {
	r.Post("/listings", h.Create)
	r.Get("/listings", h.List)
	r.Get("/listings/:listingId", h.Get)

	r.Put("/listings/:listingId/basics", h.UpdateBasics)
	r.Put("/listings/:listingId/pricing", h.UpdatePricing)
	r.Put("/listings/:listingId/itinerary", h.UpdateItinerary)

	r.Post("/listings/:listingId/media", h.UploadMedia)
	r.Delete("/listings/:listingId/media", h.DeleteMedia)

	r.Post("/listings/:listingId/publish", h.Publish)
	r.Post("/listings/:listingId/archive", h.Archive)

	r.Get("/listings/:listingId/schedule", sched.Calendar)
	r.Put("/listings/:listingId/schedule", sched.Sync)
}
