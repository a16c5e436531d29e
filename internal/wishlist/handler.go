package wishlist

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
)

// Handler exposes wishlist HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wishlist HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	ListingID string `json:"listingId"`
}

// Add saves a listing.
func (h *Handler) Add(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	item, err := h.service.Add(c.UserContext(), uid, req.ListingID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, item)
}

type updateRequest struct {
	Favorite *bool   `json:"favorite"`
	Rating   *int    `json:"rating"`
	Note     *string `json:"note"`
}

// Update edits the saved item's annotations.
func (h *Handler) Update(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	item, err := h.service.Update(c.UserContext(), uid, c.Params("listingId"), UpdateInput{
		Favorite: req.Favorite,
		Rating:   req.Rating,
		Note:     req.Note,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, item)
}

// Remove deletes the saved item.
func (h *Handler) Remove(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.Remove(c.UserContext(), uid, c.Params("listingId")); err != nil {
		return mapError(err)
	}
	return respond.Message(c, http.StatusOK, "removed from wishlist")
}

// List returns the caller's wishlist.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	items, err := h.service.List(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"items": items})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, listing.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wishlist item not found")
	case errors.Is(err, ErrDuplicate):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRating):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
