package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/guard"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/session"
)

// SessionHandler exposes the session core over HTTP: login, logout, the
// current snapshot, and route access checks.
type SessionHandler struct {
	profiles  ports.ProfileService
	sessions  *session.Container
	evaluator *guard.Evaluator
	jwtSecret string
	tokenTTL  time.Duration
}

func NewSessionHandler(profiles ports.ProfileService, sessions *session.Container, evaluator *guard.Evaluator, jwtSecret string, tokenTTL time.Duration) *SessionHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionHandler{
		profiles:  profiles,
		sessions:  sessions,
		evaluator: evaluator,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	IsUser  bool          `json:"isUser"`
	IsAdmin bool          `json:"isAdmin"`
	User    *domain.User  `json:"user,omitempty"`
	Admin   *domain.Admin `json:"admin,omitempty"`
	Token   string        `json:"token,omitempty"`
}

// Login verifies credentials against users first, then admins. An admin
// match additionally carries a bearer token for the admin-only endpoints.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := h.profiles.VerifyUserOrAdmin(c.Request().Context(), req.Email, req.Password)
	if !result.IsUser && !result.IsAdmin {
		return domain.ErrInvalidCredentials
	}

	resp := loginResponse{
		IsUser:  result.IsUser,
		IsAdmin: result.IsAdmin,
		User:    result.User,
		Admin:   result.Admin,
	}
	if result.IsAdmin {
		token, err := h.adminToken(result.Admin)
		if err != nil {
			return err
		}
		resp.Token = token
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout tears the session down. Idempotent.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

type sessionSnapshot struct {
	Identity *domain.Identity `json:"identity"`
	Status   string           `json:"status"`
	IsAdmin  bool             `json:"isAdmin"`
}

// Current returns the live session snapshot.
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionSnapshot{
		Identity: h.sessions.Current(),
		Status:   h.sessions.LoginStatus().String(),
		IsAdmin:  h.sessions.IsAdmin(),
	})
}

type accessResponse struct {
	Allowed  bool   `json:"allowed"`
	Category string `json:"category"`
	Redirect string `json:"redirect,omitempty"`
}

// CanActivate evaluates route access for the path query parameter. A denial
// names the landing route the client should redirect to.
func (h *SessionHandler) CanActivate(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	allowed, category := h.evaluator.Decide(path)
	resp := accessResponse{Allowed: allowed, Category: category}
	if !allowed {
		resp.Redirect = h.sessions.LandingRoute()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) adminToken(admin *domain.Admin) (string, error) {
	claims := jwt.MapClaims{
		"email": admin.Email,
		"role":  string(domain.RoleAdmin),
		"exp":   time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}
