package schedule

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
)

// Handler exposes calendar HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a schedule HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Calendar returns the listing's slots.
func (h *Handler) Calendar(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	slots, err := h.service.Calendar(c.UserContext(), uid, c.Params("listingId"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"slots": slots})
}

type syncRequest struct {
	Slots []SlotInput `json:"slots"`
}

// Sync replaces the calendar with the submitted desired state.
func (h *Handler) Sync(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	changes, slots, err := h.service.Sync(c.UserContext(), uid, c.Params("listingId"), req.Slots)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"applied": changes, "slots": slots})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, listing.ErrNotFound), errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "listing not found")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidSlot):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
