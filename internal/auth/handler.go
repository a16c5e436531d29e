package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/respond"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

// Handler exposes auth endpoints for register/login/refresh/logout.
type Handler struct {
	ids     *identity.Service
	svc     *Service
	wallets *wallet.Service
}

// NewHandler builds the auth handler.
func NewHandler(ids *identity.Service, svc *Service, wallets *wallet.Service) *Handler {
	return &Handler{ids: ids, svc: svc, wallets: wallets}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Country  string `json:"country"`
}

// Register creates a user and provisions their wallet.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Name:     req.Name,
		Role:     identity.Role(req.Role),
		Country:  req.Country,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.wallets.Create(c.UserContext(), wallet.CreateInput{UserID: user.ID}); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not provision wallet")
	}

	return respond.OK(c, http.StatusCreated, fiber.Map{
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and returns a token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.ids.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	pair, err := h.svc.Login(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{
		"userId":       user.ID,
		"role":         user.Role,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh issues a new access token using a valid refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	token, exp, err := h.svc.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return respond.OK(c, http.StatusOK, fiber.Map{"accessToken": token, "expiresIn": exp})
}

// Logout invalidates existing tokens by bumping the token version.
func (h *Handler) Logout(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if err := h.svc.Logout(c.UserContext(), uid); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return respond.Message(c, http.StatusOK, "logged out")
}
