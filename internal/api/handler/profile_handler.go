package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/session"
	"github.com/filmstore/rental-system/internal/core/validate"
)

// ProfileHandler exposes the field-level identity mutations. Each endpoint
// validates its input first — invalid input never reaches the mutation
// service — and resolves to the service's MutationResult envelope.
type ProfileHandler struct {
	profiles ports.ProfileService
	sessions *session.Container
}

func NewProfileHandler(profiles ports.ProfileService, sessions *session.Container) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, sessions: sessions}
}

type fieldChangeRequest struct {
	Value string `json:"value"`
}

type cardRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Number    string `json:"cardNumber"`
	Expiry    string `json:"expiry"`
	CVC       string `json:"cvc,omitempty"`
}

type filmsRequest struct {
	Films []domain.Film `json:"films"`
}

func (h *ProfileHandler) ChangeEmail(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.Email(value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangeEmail(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) ChangeFirstName(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.PersonName("firstName", value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangeFirstName(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) ChangeLastName(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.PersonName("lastName", value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangeLastName(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) ChangeDNI(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.DNI(value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangeDNI(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) ChangeAddress(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.Address(value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangeAddress(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	value, err := bindField(c)
	if err != nil {
		return err
	}
	if errs := validate.Password(value); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.ChangePassword(c.Request().Context(), h.sessions.Current(), value))
}

func (h *ProfileHandler) SetCard(c echo.Context) error {
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	card := domain.Card{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Number:    req.Number,
		Expiry:    req.Expiry,
		CVC:       req.CVC,
	}
	if errs := validate.Card(card); !errs.Valid() {
		return errs
	}
	return respond(c, h.profiles.SetCard(c.Request().Context(), h.sessions.Current(), card))
}

func (h *ProfileHandler) DeleteCard(c echo.Context) error {
	return respond(c, h.profiles.DeleteCard(c.Request().Context(), h.sessions.Current()))
}

// AddToLibrary appends purchased films. No dedup happens here or below.
func (h *ProfileHandler) AddToLibrary(c echo.Context) error {
	films, err := bindFilms(c)
	if err != nil {
		return err
	}
	return respond(c, h.profiles.AddToLibrary(c.Request().Context(), h.sessions.Current(), films))
}

func (h *ProfileHandler) ReplaceLibrary(c echo.Context) error {
	films, err := bindFilms(c)
	if err != nil {
		return err
	}
	return respond(c, h.profiles.ReplaceLibrary(c.Request().Context(), h.sessions.Current(), films))
}

func (h *ProfileHandler) ReplaceFavourites(c echo.Context) error {
	films, err := bindFilms(c)
	if err != nil {
		return err
	}
	return respond(c, h.profiles.ReplaceFavourites(c.Request().Context(), h.sessions.Current(), films))
}

func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	result := h.profiles.DeleteAccount(c.Request().Context(), h.sessions.Current())
	if result.Success {
		h.sessions.Logout(c.Request().Context())
	}
	return respond(c, result)
}

func bindField(c echo.Context) (string, error) {
	var req fieldChangeRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return req.Value, nil
}

func bindFilms(c echo.Context) ([]domain.Film, error) {
	var req filmsRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return req.Films, nil
}

// respond renders a MutationResult. Failed mutations are result values, not
// HTTP faults — the status stays 200 unless the request itself was bad.
func respond(c echo.Context, result domain.MutationResult) error {
	return c.JSON(http.StatusOK, result)
}
