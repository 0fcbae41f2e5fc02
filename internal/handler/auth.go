package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/config"
	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/repository"
	"github.com/skylane/airline-reservation/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	if u == nil {
		panic("nil user repo passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // CUSTOMER | FLIGHT_AGENT

	// Role payloads.  Exactly the block matching the role is read.
	PassportNo    string  `json:"passport_no"`
	FrequentFlyer *string `json:"frequent_flyer_no"`
	AirlineID     uint64  `json:"airline_id"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type authResp struct {
	User   userPart  `json:"user"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expires"`
}

// Register creates an account and returns an access token immediately.
// Only CUSTOMER and FLIGHT_AGENT accounts are self-service; SYSTEM_ADMIN
// accounts are provisioned out of band.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = model.RoleCustomer
	}
	u := &model.User{Email: req.Email, FullName: strings.TrimSpace(req.FullName), Role: role}
	switch role {
	case model.RoleCustomer:
		if req.PassportNo == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "passport_no required for customers"})
		}
		u.Customer = &model.CustomerProfile{PassportNo: req.PassportNo, FrequentFly: req.FrequentFlyer}
	case model.RoleFlightAgent:
		if req.AirlineID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "airline_id required for agents"})
		}
		u.Agent = &model.AgentProfile{AirlineID: req.AirlineID}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be CUSTOMER or FLIGHT_AGENT"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u.PasswordHash = hash

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		User:   userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: string(u.Role)},
		Token:  access.Token,
		Expiry: access.Exp,
	})
}

// Login verifies credentials and returns a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:   userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: string(u.Role)},
		Token:  access.Token,
		Expiry: access.Exp,
	})
}

// Me returns the identity claims of the current token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
