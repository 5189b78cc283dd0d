package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/validate"
)

// IdentityHandler serves the record collections: the /users CRUD the clients
// address by numeric id, and the read-only /admins list.
type IdentityHandler struct {
	users    ports.UserStore
	admins   ports.AdminStore
	profiles ports.ProfileService
}

func NewIdentityHandler(users ports.UserStore, admins ports.AdminStore, profiles ports.ProfileService) *IdentityHandler {
	return &IdentityHandler{users: users, admins: admins, profiles: profiles}
}

// ListUsers returns all user records, or the ones matching the email query
// parameter when present.
func (h *IdentityHandler) ListUsers(c echo.Context) error {
	if email := c.QueryParam("email"); email != "" {
		users, err := h.users.FindByEmail(c.Request().Context(), email)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, users)
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *IdentityHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser registers a new user. Field rules run before the record is
// created; a taken email yields 409.
func (h *IdentityHandler) CreateUser(c echo.Context) error {
	var user domain.User
	if err := c.Bind(&user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var errs validate.FieldErrors
	errs = append(errs, validate.Email(user.Email)...)
	errs = append(errs, validate.PersonName("firstName", user.FirstName)...)
	errs = append(errs, validate.PersonName("lastName", user.LastName)...)
	errs = append(errs, validate.Password(user.Password)...)
	if !errs.Valid() {
		return errs
	}

	created, err := h.profiles.Register(c.Request().Context(), &user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ReplaceUser applies the PATCH-as-full-replace contract: the supplied
// object replaces the record named by the path id.
func (h *IdentityHandler) ReplaceUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var user domain.User
	if err := c.Bind(&user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	user.ID = id

	if err := h.users.Replace(c.Request().Context(), &user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *IdentityHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserLibrary returns the library of the record named by the path id,
// used by admins to inspect a customer's purchases.
func (h *IdentityHandler) GetUserLibrary(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.profiles.LoadLibraryByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Library)
}

func (h *IdentityHandler) ListAdmins(c echo.Context) error {
	admins, err := h.admins.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admins)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
