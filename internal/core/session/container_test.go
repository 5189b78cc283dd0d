package session

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/core/domain"
)

// stubVault keeps the slot as serialized bytes, mimicking a real register.
type stubVault struct {
	data     []byte
	saveErr  error
	clearErr error
}

func (v *stubVault) Save(_ context.Context, identity *domain.Identity) error {
	if v.saveErr != nil {
		return v.saveErr
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	v.data = data
	return nil
}

func (v *stubVault) Load(_ context.Context) (*domain.Identity, error) {
	if v.data == nil {
		return nil, domain.ErrNoStoredIdentity
	}
	var identity domain.Identity
	if err := json.Unmarshal(v.data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (v *stubVault) Clear(_ context.Context) error {
	if v.clearErr != nil {
		return v.clearErr
	}
	v.data = nil
	return nil
}

type stubUserStore struct {
	users      []domain.User
	getUser    *domain.User
	listErr    error
	getErr     error
	replaceErr error
	replaced   []domain.User
}

func (s *stubUserStore) List(context.Context) ([]domain.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.User(nil), s.users...), nil
}

func (s *stubUserStore) Get(context.Context, int) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getUser == nil {
		return nil, domain.ErrUserNotFound
	}
	clone := *s.getUser
	return &clone, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	clone.ID = len(s.users) + 1
	s.users = append(s.users, clone)
	return &clone, nil
}

func (s *stubUserStore) Replace(_ context.Context, user *domain.User) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, *user)
	return nil
}

func (s *stubUserStore) Delete(context.Context, int) error {
	return nil
}

type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) NavigateTo(route string) {
	n.routes = append(n.routes, route)
}

func testUser() *domain.User {
	return &domain.User{
		ID:        1,
		Email:     "ana@example.com",
		Password:  "secret1",
		FirstName: "Ana",
		LastName:  "Gomez",
		Favourites: domain.FavouriteList{
			Films: []domain.Film{{ID: 5, Title: "Heat"}},
		},
	}
}

func newTestContainer(t *testing.T, vault *stubVault, store *stubUserStore) (*Container, *recordingNavigator, *SharedFlag) {
	t.Helper()
	nav := &recordingNavigator{}
	flag := NewSharedFlag()
	c := New(context.Background(), Config{
		Vault:      vault,
		Users:      store,
		Navigator:  nav,
		LoggedFlag: flag,
		Logger:     zerolog.Nop(),
	})
	return c, nav, flag
}

func TestContainer_HydratesStoredIdentityAsLoggedIn(t *testing.T) {
	vault := &stubVault{}
	if err := vault.Save(context.Background(), domain.UserIdentity(testUser())); err != nil {
		t.Fatalf("seeding vault: %v", err)
	}

	c, _, _ := newTestContainer(t, vault, &stubUserStore{})

	current := c.Current()
	if current == nil || current.User == nil || current.User.Email != "ana@example.com" {
		t.Fatalf("expected hydrated user, got %+v", current)
	}
	if c.LoginStatus() != domain.LoggedIn {
		t.Fatalf("expected LoggedIn after hydration, got %v", c.LoginStatus())
	}
}

func TestContainer_HydrationBackfillsEmptyFavourites(t *testing.T) {
	stored := testUser()
	stored.Favourites = domain.FavouriteList{}
	vault := &stubVault{}
	if err := vault.Save(context.Background(), domain.UserIdentity(stored)); err != nil {
		t.Fatalf("seeding vault: %v", err)
	}

	remote := testUser() // carries favourites
	store := &stubUserStore{getUser: remote}
	c, _, _ := newTestContainer(t, vault, store)

	current := c.Current()
	if current.User.Favourites.IsEmpty() {
		t.Fatalf("expected favourites backfilled from remote")
	}
	if current.User.Favourites.Films[0].Title != "Heat" {
		t.Fatalf("unexpected backfilled favourites: %+v", current.User.Favourites)
	}
}

func TestContainer_ColdStartLoadsUserCache(t *testing.T) {
	store := &stubUserStore{users: []domain.User{*testUser(), {ID: 2, Email: "b@example.com"}}}
	c, _, _ := newTestContainer(t, &stubVault{}, store)

	if c.Current() != nil {
		t.Fatalf("expected no identity on cold start")
	}
	if c.LoginStatus() != domain.LoginUnknown {
		t.Fatalf("expected LoginUnknown on cold start, got %v", c.LoginStatus())
	}
	if got := len(c.CachedUsers()); got != 2 {
		t.Fatalf("expected 2 cached users, got %d", got)
	}
}

func TestContainer_SetCurrentWritesThrough(t *testing.T) {
	vault := &stubVault{}
	c, _, _ := newTestContainer(t, vault, &stubUserStore{users: []domain.User{}})

	identity := domain.UserIdentity(testUser())
	if err := c.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent returned error: %v", err)
	}

	stored, err := vault.Load(context.Background())
	if err != nil {
		t.Fatalf("vault read after SetCurrent: %v", err)
	}
	if !reflect.DeepEqual(stored, identity) {
		t.Fatalf("stored identity differs from input:\n got %+v\nwant %+v", stored, identity)
	}
	if c.LoginStatus() != domain.LoggedIn {
		t.Fatalf("expected LoggedIn after SetCurrent, got %v", c.LoginStatus())
	}

	if err := c.SetCurrent(context.Background(), nil); err != nil {
		t.Fatalf("SetCurrent(nil) returned error: %v", err)
	}
	if _, err := vault.Load(context.Background()); !errors.Is(err, domain.ErrNoStoredIdentity) {
		t.Fatalf("expected empty slot after SetCurrent(nil), got %v", err)
	}
	if c.Current() != nil {
		t.Fatalf("expected nil identity after SetCurrent(nil)")
	}
}

func TestContainer_SetCurrentEmitsOnStream(t *testing.T) {
	c, _, _ := newTestContainer(t, &stubVault{}, &stubUserStore{})

	ch, cancel := c.Subscribe()
	defer cancel()
	if got := <-ch; got != nil {
		t.Fatalf("expected replayed nil identity, got %+v", got)
	}

	identity := domain.UserIdentity(testUser())
	if err := c.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if got := <-ch; got == nil || got.User.Email != "ana@example.com" {
		t.Fatalf("expected emitted identity, got %+v", got)
	}
}

func TestContainer_LogoutIsIdempotent(t *testing.T) {
	vault := &stubVault{}
	c, nav, flag := newTestContainer(t, vault, &stubUserStore{})

	if err := c.SetCurrent(context.Background(), domain.UserIdentity(testUser())); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	for i := 0; i < 2; i++ {
		c.Logout(context.Background())

		if c.Current() != nil {
			t.Fatalf("expected nil identity after logout %d", i+1)
		}
		if c.LoginStatus() != domain.LoggedOut {
			t.Fatalf("expected LoggedOut after logout %d, got %v", i+1, c.LoginStatus())
		}
		if _, err := vault.Load(context.Background()); !errors.Is(err, domain.ErrNoStoredIdentity) {
			t.Fatalf("expected cleared vault after logout %d, got %v", i+1, err)
		}
		if flag.Logged() {
			t.Fatalf("expected shared flag reset after logout %d", i+1)
		}
	}

	if len(nav.routes) != 2 || nav.routes[0] != "inicio" {
		t.Fatalf("expected redirect to landing route on each logout, got %v", nav.routes)
	}
}

func TestContainer_CardFormToggle(t *testing.T) {
	c, _, _ := newTestContainer(t, &stubVault{}, &stubUserStore{})

	ch, cancel := c.ShowCardFormStream()
	defer cancel()
	if got := <-ch; got {
		t.Fatalf("expected card form hidden initially")
	}

	c.ToggleCardForm(true)
	if !c.ShowCardForm() {
		t.Fatalf("expected card form visible after toggle")
	}
	if got := <-ch; !got {
		t.Fatalf("expected toggle emitted on stream")
	}
}
