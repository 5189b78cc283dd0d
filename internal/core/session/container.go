package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/api/metrics"
	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/ports"
)

const defaultLandingRoute = "inicio"

// Config wires the container's collaborators. The container is an explicitly
// constructed, injected value — consumers hold a reference, nothing reaches
// it through package-level state.
type Config struct {
	Vault        ports.SessionVault
	Users        ports.UserStore
	Navigator    ports.Navigator
	LoggedFlag   ports.LoggedFlag
	LandingRoute string
	Logger       zerolog.Logger
}

// Container holds the live session: the current identity (user or admin,
// mutually exclusive), the tri-state login status, and the card-form toggle.
// Identity changes write through to the vault before they are published.
type Container struct {
	log     zerolog.Logger
	vault   ports.SessionVault
	users   ports.UserStore
	nav     ports.Navigator
	flag    ports.LoggedFlag
	landing string

	identity *Subject[*domain.Identity]
	status   *Subject[domain.LoginStatus]
	cardForm *Subject[bool]

	cacheMu   sync.Mutex
	userCache []domain.User
}

// New constructs the container and hydrates it from the vault. A stored
// identity counts as logged in; if its favourites were never populated, one
// remote fetch backfills them before the identity is published. When the slot
// is empty the full user collection is loaded eagerly into the credential
// cache instead.
func New(ctx context.Context, cfg Config) *Container {
	landing := cfg.LandingRoute
	if landing == "" {
		landing = defaultLandingRoute
	}
	c := &Container{
		log:      cfg.Logger,
		vault:    cfg.Vault,
		users:    cfg.Users,
		nav:      cfg.Navigator,
		flag:     cfg.LoggedFlag,
		landing:  landing,
		identity: NewSubject[*domain.Identity](nil),
		status:   NewSubject(domain.LoginUnknown),
		cardForm: NewSubject(false),
	}
	c.hydrate(ctx)
	return c
}

func (c *Container) hydrate(ctx context.Context) {
	stored, err := c.vault.Load(ctx)
	switch {
	case err == nil:
		metrics.SessionHydrationsTotal.WithLabelValues("vault").Inc()
		if stored.User != nil && stored.User.Favourites.IsEmpty() {
			if fresh, ferr := c.users.Get(ctx, stored.User.ID); ferr == nil {
				stored.User.Favourites = fresh.Favourites.Clone()
			} else {
				c.log.Warn().Err(ferr).Int("user_id", stored.User.ID).Msg("favourites backfill failed")
			}
		}
		if serr := c.SetCurrent(ctx, stored); serr != nil {
			c.log.Warn().Err(serr).Msg("re-persisting hydrated identity failed")
		}
	case errors.Is(err, domain.ErrNoStoredIdentity):
		metrics.SessionHydrationsTotal.WithLabelValues("cold").Inc()
		if cerr := c.EnsureUserCache(ctx); cerr != nil {
			c.log.Warn().Err(cerr).Msg("eager user cache load failed")
		}
	default:
		c.log.Error().Err(err).Msg("session hydration failed")
	}
}

// Current returns a synchronous snapshot of the identity. Never blocks.
func (c *Container) Current() *domain.Identity {
	return c.identity.Value()
}

// Subscribe returns a stream of identity changes that replays the latest
// value to the new subscriber first.
func (c *Container) Subscribe() (<-chan *domain.Identity, func()) {
	return c.identity.Subscribe()
}

// LoginStatus returns a synchronous snapshot of the login flag.
func (c *Container) LoginStatus() domain.LoginStatus {
	return c.status.Value()
}

// LoginStatusStream returns the replay-latest stream of the login flag.
func (c *Container) LoginStatusStream() (<-chan domain.LoginStatus, func()) {
	return c.status.Subscribe()
}

// IsAdmin reports whether the current identity is an admin. Tracked
// separately from the login flag: the route evaluator consults both.
func (c *Container) IsAdmin() bool {
	return c.Current().IsAdmin()
}

// ShowCardForm returns the current card-form visibility toggle.
func (c *Container) ShowCardForm() bool {
	return c.cardForm.Value()
}

// ShowCardFormStream returns the replay-latest stream of the toggle.
func (c *Container) ShowCardFormStream() (<-chan bool, func()) {
	return c.cardForm.Subscribe()
}

// ToggleCardForm flips the card-form visibility toggle.
func (c *Container) ToggleCardForm(show bool) {
	c.cardForm.Next(show)
}

// SetCurrent installs identity as the current one: writes through to the
// vault (clearing the slot when identity is nil), publishes the identity,
// and marks the session logged in for a non-nil identity. A vault failure is
// reported but does not stop the in-memory state from updating; the vault is
// a mirror, not the source of truth.
func (c *Container) SetCurrent(ctx context.Context, identity *domain.Identity) error {
	var err error
	if identity == nil {
		err = c.vault.Clear(ctx)
	} else {
		err = c.vault.Save(ctx, identity)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("session vault write failed")
	}

	c.identity.Next(identity)
	if identity != nil {
		c.status.Next(domain.LoggedIn)
	}
	return err
}

// Logout tears the session down: identity to nil, status to LoggedOut, vault
// cleared, the external logged flag reset, and a redirect to the landing
// route. Safe to call when already logged out.
func (c *Container) Logout(ctx context.Context) {
	c.identity.Next(nil)
	c.status.Next(domain.LoggedOut)
	if err := c.vault.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("clearing session vault failed")
	}
	if c.flag != nil {
		c.flag.SetLogged(false)
	}
	if c.nav != nil {
		c.nav.NavigateTo(c.landing)
	}
}

// EnsureUserCache loads the user collection into the credential cache if it
// is not already populated.
func (c *Container) EnsureUserCache(ctx context.Context) error {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if len(c.userCache) > 0 {
		return nil
	}
	users, err := c.users.List(ctx)
	if err != nil {
		return err
	}
	c.userCache = users
	return nil
}

// CachedUsers returns the credential cache contents.
func (c *Container) CachedUsers() []domain.User {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	return append([]domain.User(nil), c.userCache...)
}

// LandingRoute returns the route denied navigations are redirected to.
func (c *Container) LandingRoute() string {
	return c.landing
}
