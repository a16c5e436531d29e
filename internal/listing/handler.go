package listing

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/storage"
)

// Handler exposes listing HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a listing HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
}

// Create opens a new draft.
func (h *Handler) Create(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	l, err := h.service.Create(c.UserContext(), CreateInput{HostID: uid, Kind: req.Kind, Title: req.Title})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, l)
}

// List searches the caller's listings.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	items, meta, err := h.service.Search(c.UserContext(), Query{
		HostID:  uid,
		Kind:    Kind(c.Query("kind")),
		Status:  Status(c.Query("status")),
		Search:  c.Query("search"),
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("perPage", 20),
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"listings": items, "pagination": meta})
}

// Get fetches one listing.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	l, err := h.service.Get(c.UserContext(), uid, c.Params("listingId"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

type basicsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	MaxGuests   int    `json:"maxGuests"`
}

// UpdateBasics applies the basics wizard section.
func (h *Handler) UpdateBasics(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req basicsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	l, err := h.service.UpdateBasics(c.UserContext(), uid, c.Params("listingId"), BasicsInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		MaxGuests:   req.MaxGuests,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

type pricingRequest struct {
	Price int64 `json:"price"`
}

// UpdatePricing applies the pricing wizard section.
func (h *Handler) UpdatePricing(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req pricingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	l, err := h.service.UpdatePricing(c.UserContext(), uid, c.Params("listingId"), PricingInput{Price: req.Price})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

type itineraryRequest struct {
	Steps []ItineraryStep `json:"steps"`
}

// UpdateItinerary replaces a tour's itinerary.
func (h *Handler) UpdateItinerary(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req itineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	l, err := h.service.UpdateItinerary(c.UserContext(), uid, c.Params("listingId"), req.Steps)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

// UploadMedia attaches an uploaded file to the listing.
func (h *Handler) UploadMedia(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "a file is required")
	}
	src, err := file.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "could not read file")
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return fiber.NewError(http.StatusBadRequest, "could not read file")
	}

	l, err := h.service.AttachMedia(c.UserContext(), uid, c.Params("listingId"),
		file.Filename, file.Header.Get("Content-Type"), &buf)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, l)
}

// DeleteMedia detaches a media object.
func (h *Handler) DeleteMedia(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	l, err := h.service.RemoveMedia(c.UserContext(), uid, c.Params("listingId"), c.Query("key"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

// Publish flips a draft live.
func (h *Handler) Publish(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	l, err := h.service.Publish(c.UserContext(), uid, c.Params("listingId"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

// Archive takes a listing offline.
func (h *Handler) Archive(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	l, err := h.service.Archive(c.UserContext(), uid, c.Params("listingId"))
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, l)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "listing not found")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotPublishable):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
