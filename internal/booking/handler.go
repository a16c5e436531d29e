package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
)

// Handler exposes booking HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a booking HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	ListingID string    `json:"listingId"`
	GuestName string    `json:"guestName"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Guests    int       `json:"guests"`
}

// Create records a booking for the authenticated guest.
func (h *Handler) Create(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	b, err := h.service.Create(c.UserContext(), CreateInput{
		ListingID: req.ListingID,
		GuestID:   uid,
		GuestName: req.GuestName,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, b)
}

// List returns the caller's bookings as host.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	filter := Filter{Status: Status(c.Query("status"))}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "from must be RFC3339")
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "to must be RFC3339")
		}
		filter.To = t
	}
	items, err := h.service.ListByHost(c.UserContext(), uid, filter)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"bookings": items})
}

// Get fetches one booking.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	b, err := h.service.Get(c.UserContext(), uid, c.Params("bookingId"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, b)
}

type editRequest struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Guests   int       `json:"guests"`
	Notes    string    `json:"notes"`
}

// Edit updates an open booking's details.
func (h *Handler) Edit(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req editRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	b, err := h.service.Edit(c.UserContext(), uid, c.Params("bookingId"), EditInput{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
		Notes:    req.Notes,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, b)
}

// UpdateStatus applies a lifecycle action: confirm, complete or cancel.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	id := c.Params("bookingId")

	var (
		b   Booking
		err error
	)
	switch action := c.Params("action"); action {
	case "confirm":
		b, err = h.service.Confirm(c.UserContext(), uid, id)
	case "complete":
		b, err = h.service.Complete(c.UserContext(), uid, id)
	case "cancel":
		b, err = h.service.Cancel(c.UserContext(), uid, id)
	default:
		return fiber.NewError(http.StatusBadRequest, "unknown action "+action)
	}
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, b)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "booking not found")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotEditable):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
