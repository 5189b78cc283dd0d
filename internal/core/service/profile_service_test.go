package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/session"
)

// fakeStore backs both the user and admin collections for service tests.
type fakeStore struct {
	users     []domain.User
	admins    []domain.Admin
	replaced  []domain.User
	deleted   []int
	listErr   error
	replErr   error
	deleteErr error
	adminErr  error
	adminHits int
}

func (f *fakeStore) List(context.Context) ([]domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeStore) Get(_ context.Context, id int) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	clone.ID = len(f.users) + 1
	f.users = append(f.users, clone)
	return &clone, nil
}

func (f *fakeStore) Replace(_ context.Context, user *domain.User) error {
	if f.replErr != nil {
		return f.replErr
	}
	f.replaced = append(f.replaced, *user)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListAdmins(context.Context) ([]domain.Admin, error) {
	f.adminHits++
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return append([]domain.Admin(nil), f.admins...), nil
}

// nullVault satisfies the vault port without persistence.
type nullVault struct{}

func (nullVault) Save(context.Context, *domain.Identity) error { return nil }
func (nullVault) Load(context.Context) (*domain.Identity, error) {
	return nil, domain.ErrNoStoredIdentity
}
func (nullVault) Clear(context.Context) error { return nil }

func serviceUnderTest(t *testing.T, store *fakeStore) (*ProfileService, *session.Container) {
	t.Helper()
	sessions := session.New(context.Background(), session.Config{
		Vault:  nullVault{},
		Users:  store,
		Logger: zerolog.Nop(),
	})
	return NewProfileService(store, store, sessions, zerolog.Nop()), sessions
}

func loggedInUser() *domain.User {
	return &domain.User{
		ID:        1,
		Email:     "ana@example.com",
		Password:  "secret1",
		FirstName: "Ana",
		LastName:  "Gomez",
		Library:   []domain.Film{{ID: 10, Title: "Alien"}},
	}
}

func TestChangeEmail_CommitsCloneNotInput(t *testing.T) {
	store := &fakeStore{}
	svc, sessions := serviceUnderTest(t, store)

	identity := domain.UserIdentity(loggedInUser())
	if err := sessions.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	result := svc.ChangeEmail(context.Background(), identity, "new@example.com")
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	// The identity the caller handed in stays untouched.
	if identity.User.Email != "ana@example.com" {
		t.Fatalf("input identity was mutated: %s", identity.User.Email)
	}
	// The session holds the committed clone.
	if got := sessions.Current().User.Email; got != "new@example.com" {
		t.Fatalf("session not updated, email = %s", got)
	}
	// The remote record received the whole user, not a patch fragment.
	if len(store.replaced) != 1 || store.replaced[0].FirstName != "Ana" {
		t.Fatalf("expected full-record replace, got %+v", store.replaced)
	}
}

func TestMutation_RemoteFailureLeavesSessionUnchanged(t *testing.T) {
	store := &fakeStore{replErr: errors.New("store down")}
	svc, sessions := serviceUnderTest(t, store)

	identity := domain.UserIdentity(loggedInUser())
	if err := sessions.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	result := svc.ChangeAddress(context.Background(), identity, "Nueva 456")
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.Message == "" {
		t.Fatalf("expected a user-facing failure message")
	}
	if got := sessions.Current().User.Address; got != "" {
		t.Fatalf("session identity changed despite remote failure: %q", got)
	}
}

func TestMutation_RejectsMissingOrAdminIdentity(t *testing.T) {
	store := &fakeStore{}
	svc, _ := serviceUnderTest(t, store)

	if result := svc.ChangeEmail(context.Background(), nil, "x@example.com"); result.Success {
		t.Fatalf("expected rejection for nil identity")
	}

	admin := domain.AdminIdentity(&domain.Admin{ID: 1, Email: "root@example.com"})
	if result := svc.ChangeEmail(context.Background(), admin, "x@example.com"); result.Success {
		t.Fatalf("expected rejection for admin identity")
	}
	if len(store.replaced) != 0 {
		t.Fatalf("rejected mutations must not reach the store")
	}
}

func TestAddToLibrary_AppendsWithoutDedup(t *testing.T) {
	store := &fakeStore{}
	svc, sessions := serviceUnderTest(t, store)

	identity := domain.UserIdentity(loggedInUser())
	if err := sessions.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	film := domain.Film{ID: 10, Title: "Alien"}
	if result := svc.AddToLibrary(context.Background(), sessions.Current(), []domain.Film{film}); !result.Success {
		t.Fatalf("first purchase failed: %+v", result)
	}
	if result := svc.AddToLibrary(context.Background(), sessions.Current(), []domain.Film{film}); !result.Success {
		t.Fatalf("second purchase failed: %+v", result)
	}

	// Library started with one copy; two more purchases mean three entries.
	if got := len(sessions.Current().User.Library); got != 3 {
		t.Fatalf("expected 3 library entries, got %d", got)
	}
}

func TestSetCard_StripsCVCAndHidesForm(t *testing.T) {
	store := &fakeStore{}
	svc, sessions := serviceUnderTest(t, store)

	identity := domain.UserIdentity(loggedInUser())
	if err := sessions.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	sessions.ToggleCardForm(true)

	card := domain.Card{FirstName: "Ana", LastName: "Gomez", Number: "4111111111111111", Expiry: "12/27", CVC: "123"}
	if result := svc.SetCard(context.Background(), identity, card); !result.Success {
		t.Fatalf("SetCard failed: %+v", result)
	}

	stored := sessions.Current().User.Card
	if stored.CVC != "" {
		t.Fatalf("CVC must not be persisted, got %q", stored.CVC)
	}
	if stored.Number != "4111111111111111" {
		t.Fatalf("card number lost: %q", stored.Number)
	}
	if sessions.ShowCardForm() {
		t.Fatalf("card form should be hidden after a successful save")
	}
}

func TestDeleteCard_InstallsEmptySentinel(t *testing.T) {
	store := &fakeStore{}
	svc, sessions := serviceUnderTest(t, store)

	user := loggedInUser()
	user.Card = domain.Card{FirstName: "Ana", LastName: "Gomez", Number: "4111111111111111", Expiry: "12/27"}
	if err := sessions.SetCurrent(context.Background(), domain.UserIdentity(user)); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	if result := svc.DeleteCard(context.Background(), sessions.Current()); !result.Success {
		t.Fatalf("DeleteCard failed: %+v", result)
	}
	if !sessions.Current().User.Card.IsEmpty() {
		t.Fatalf("expected empty card sentinel, got %+v", sessions.Current().User.Card)
	}
}

func TestVerifyUserOrAdmin_UserMatchSkipsAdminLookup(t *testing.T) {
	store := &fakeStore{
		users:  []domain.User{*loggedInUser()},
		admins: []domain.Admin{{ID: 1, Email: "root@example.com", Password: "rootpw"}},
	}
	svc, sessions := serviceUnderTest(t, store)

	result := svc.VerifyUserOrAdmin(context.Background(), "ana@example.com", "secret1")
	if !result.IsUser || result.User == nil || result.User.ID != 1 {
		t.Fatalf("expected user match, got %+v", result)
	}
	if store.adminHits != 0 {
		t.Fatalf("admin collection consulted despite user match")
	}
	if sessions.Current() == nil || sessions.Current().User == nil {
		t.Fatalf("verified user not installed into session")
	}
	if sessions.LoginStatus() != domain.LoggedIn {
		t.Fatalf("expected LoggedIn after verification")
	}
}

func TestVerifyUserOrAdmin_FallsBackToAdmins(t *testing.T) {
	store := &fakeStore{
		users:  []domain.User{*loggedInUser()},
		admins: []domain.Admin{{ID: 1, Email: "root@example.com", Password: "rootpw"}},
	}
	svc, sessions := serviceUnderTest(t, store)

	result := svc.VerifyUserOrAdmin(context.Background(), "root@example.com", "rootpw")
	if !result.IsAdmin || result.Admin == nil {
		t.Fatalf("expected admin match, got %+v", result)
	}
	if !sessions.IsAdmin() {
		t.Fatalf("verified admin not installed into session")
	}
}

func TestVerifyUserOrAdmin_RejectsBadCredentials(t *testing.T) {
	store := &fakeStore{users: []domain.User{*loggedInUser()}}
	svc, sessions := serviceUnderTest(t, store)

	result := svc.VerifyUserOrAdmin(context.Background(), "ana@example.com", "wrong")
	if result.IsUser || result.IsAdmin {
		t.Fatalf("expected rejection, got %+v", result)
	}
	if sessions.Current() != nil {
		t.Fatalf("rejected verification must not install an identity")
	}
}

func TestVerifyUserOrAdmin_AdminLookupErrorResolvesNegative(t *testing.T) {
	store := &fakeStore{adminErr: errors.New("remote down")}
	svc, _ := serviceUnderTest(t, store)

	result := svc.VerifyUserOrAdmin(context.Background(), "root@example.com", "rootpw")
	if result.IsUser || result.IsAdmin {
		t.Fatalf("expected negative result on admin lookup failure, got %+v", result)
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	store := &fakeStore{users: []domain.User{*loggedInUser()}}
	svc, _ := serviceUnderTest(t, store)

	_, err := svc.Register(context.Background(), &domain.User{Email: "ana@example.com", Password: "pw"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	created, err := svc.Register(context.Background(), &domain.User{Email: "new@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", created)
	}
}

func TestDeleteAccount(t *testing.T) {
	store := &fakeStore{}
	svc, sessions := serviceUnderTest(t, store)

	identity := domain.UserIdentity(loggedInUser())
	if err := sessions.SetCurrent(context.Background(), identity); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	if result := svc.DeleteAccount(context.Background(), identity); !result.Success {
		t.Fatalf("DeleteAccount failed: %+v", result)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 1 {
		t.Fatalf("expected record 1 deleted, got %v", store.deleted)
	}

	if result := svc.DeleteAccount(context.Background(), nil); result.Success {
		t.Fatalf("expected failure for nil identity")
	}
}

func TestLoadLibraryByID(t *testing.T) {
	store := &fakeStore{users: []domain.User{*loggedInUser()}}
	svc, _ := serviceUnderTest(t, store)

	user, err := svc.LoadLibraryByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadLibraryByID: %v", err)
	}
	if len(user.Library) != 1 || user.Library[0].Title != "Alien" {
		t.Fatalf("unexpected library: %+v", user.Library)
	}

	if _, err := svc.LoadLibraryByID(context.Background(), 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCheckEmailExists(t *testing.T) {
	store := &fakeStore{users: []domain.User{*loggedInUser()}}
	svc, _ := serviceUnderTest(t, store)

	exists, err := svc.CheckEmailExists(context.Background(), "ana@example.com")
	if err != nil || !exists {
		t.Fatalf("expected existing email, got exists=%v err=%v", exists, err)
	}
	exists, err = svc.CheckEmailExists(context.Background(), "nobody@example.com")
	if err != nil || exists {
		t.Fatalf("expected missing email, got exists=%v err=%v", exists, err)
	}
}
