package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/service"
)

// Accounts is the part of service.AuthService the auth endpoints use.
type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, username, password string) (*service.Session, error)
	Me(id *service.Identity) model.PublicUser
}

// AuthHandler serves registration, login and the current identity.
type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and returns a session for it (201).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.accounts.Register(ctx, service.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Login exchanges username and password for a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Me returns the caller's identity. The admin flag is the one embedded in
// the token.
func (h *AuthHandler) Me(c echo.Context) error {
	id := identity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, h.accounts.Me(id))
}
