package withdrawal

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

// Handler exposes withdrawal HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a withdrawal HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type initiateRequest struct {
	Amount   int64  `json:"amount"`
	MethodID string `json:"methodId"`
}

// Initiate validates the withdrawal and sends a one-time code.
func (h *Handler) Initiate(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req initiateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	challenge, err := h.service.InitiateWithdrawal(c.UserContext(), uid, req.Amount, req.MethodID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, challenge)
}

// Resend replaces the open OTP session with a fresh code.
func (h *Handler) Resend(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	challenge, err := h.service.ResendOTP(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, challenge)
}

type verifyRequest struct {
	OTP      string `json:"otp"`
	Amount   int64  `json:"amount"`
	MethodID string `json:"methodId"`
}

// Verify checks the code and creates the pending withdrawal request.
func (h *Handler) Verify(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	receipt, err := h.service.VerifyAndWithdraw(c.UserContext(), uid, req.OTP, req.Amount, req.MethodID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, receipt)
}

// CancelOTP abandons the verification step.
func (h *Handler) CancelOTP(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.CancelOTP(c.UserContext(), uid); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.Message(c, http.StatusOK, "withdrawal cancelled")
}

type addMethodRequest struct {
	MethodType    MethodType `json:"methodType"`
	ProviderID    string     `json:"providerId"`
	AccountNumber string     `json:"accountNumber"`
	AccountName   string     `json:"accountName"`
}

// AddMethod stores a new payout destination.
func (h *Handler) AddMethod(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req addMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	method, err := h.service.AddMethod(c.UserContext(), uid, AddMethodInput{
		Type:          req.MethodType,
		ProviderID:    req.ProviderID,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, method)
}

// Methods lists the user's payout methods.
func (h *Handler) Methods(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	methods, err := h.service.Methods(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"methods": methods})
}

// SetDefaultMethod changes the default payout destination.
func (h *Handler) SetDefaultMethod(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.SetDefaultMethod(c.UserContext(), uid, c.Params("methodId")); err != nil {
		return mapError(err)
	}
	return respond.Message(c, http.StatusOK, "default method updated")
}

// DeleteMethod removes a payout destination.
func (h *Handler) DeleteMethod(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.DeleteMethod(c.UserContext(), uid, c.Params("methodId")); err != nil {
		return mapError(err)
	}
	return respond.Message(c, http.StatusOK, "method removed")
}

// Providers returns the provider catalog for a country.
func (h *Handler) Providers(c *fiber.Ctx) error {
	country := c.Query("country", "RW")
	catalog, err := h.service.Providers(c.UserContext(), country)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, catalog)
}

// History lists the user's withdrawal requests with pagination metadata.
func (h *Handler) History(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	requests, page, err := h.service.History(c.UserContext(), uid, c.QueryInt("page", 1), c.QueryInt("perPage", 20))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"requests": requests, "pagination": page})
}

type failRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatus applies an operator-driven status transition.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("requestId")
	var err error
	switch c.Params("action") {
	case "process":
		err = h.service.MarkProcessing(c.UserContext(), id)
	case "complete":
		err = h.service.Complete(c.UserContext(), id)
	case "fail":
		var req failRequest
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid request body")
		}
		err = h.service.Fail(c.UserContext(), id, req.Reason)
	case "cancel":
		err = h.service.Cancel(c.UserContext(), id)
	default:
		return fiber.NewError(http.StatusNotFound, "unknown action")
	}
	if err != nil {
		return mapError(err)
	}
	return respond.Message(c, http.StatusOK, "withdrawal updated")
}

func mapError(err error) error {
	var dup *DuplicateMethodError
	var length *AccountLengthError
	switch {
	case errors.Is(err, ErrWalletCurrency),
		errors.Is(err, ErrAmountRange),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrNoVerifiedMethod),
		errors.Is(err, ErrMethodNotVerified),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrAccountFormat),
		errors.As(err, &length):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOTPMismatch),
		errors.Is(err, ErrOTPExpired),
		errors.Is(err, ErrTooManyAttempts):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &dup):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrMethodNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrNoSession),
		errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
