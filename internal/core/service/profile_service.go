package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/api/metrics"
	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/session"
)

// ProfileService mutates identity records against the remote store. Every
// mutation follows the same protocol: clone the identity, apply the change to
// the clone, replace the whole record remotely, and only then commit the
// clone into the session. On failure the session keeps the pre-call identity
// and the caller gets a MutationResult, never a transport error.
//
// No in-flight lock guards concurrent mutations of the same field; the
// later-resolving replace wins.
type ProfileService struct {
	users    ports.UserStore
	admins   ports.AdminStore
	sessions *session.Container
	log      zerolog.Logger
}

func NewProfileService(users ports.UserStore, admins ports.AdminStore, sessions *session.Container, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, admins: admins, sessions: sessions, log: log}
}

// mutateUser runs the shared mutation protocol for a user-backed identity.
// The change always goes to the remote store, even when the new value equals
// the current one; callers may skip no-ops, this core does not.
func (s *ProfileService) mutateUser(ctx context.Context, identity *domain.Identity, field string, apply func(*domain.User), okMsg, failMsg string) domain.MutationResult {
	if identity == nil || identity.User == nil {
		metrics.MutationsTotal.WithLabelValues(field, "rejected").Inc()
		return domain.MutationResult{Success: false, Message: failMsg}
	}

	clone := identity.Clone()
	apply(clone.User)

	if err := s.users.Replace(ctx, clone.User); err != nil {
		s.log.Error().Err(err).Str("field", field).Int("user_id", clone.User.ID).Msg("identity mutation failed")
		metrics.MutationsTotal.WithLabelValues(field, "error").Inc()
		return domain.MutationResult{Success: false, Message: failMsg}
	}

	if err := s.sessions.SetCurrent(ctx, clone); err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("session write-through failed after mutation")
	}
	metrics.MutationsTotal.WithLabelValues(field, "ok").Inc()
	return domain.MutationResult{Success: true, Message: okMsg}
}

func (s *ProfileService) ChangeEmail(ctx context.Context, identity *domain.Identity, newEmail string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "email",
		func(u *domain.User) { u.Email = newEmail },
		"Email updated successfully.",
		"Could not update the email. Please try again later.")
}

func (s *ProfileService) ChangeFirstName(ctx context.Context, identity *domain.Identity, newFirstName string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "first_name",
		func(u *domain.User) { u.FirstName = newFirstName },
		"First name updated successfully.",
		"Could not update the first name. Please try again later.")
}

func (s *ProfileService) ChangeLastName(ctx context.Context, identity *domain.Identity, newLastName string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "last_name",
		func(u *domain.User) { u.LastName = newLastName },
		"Last name updated successfully.",
		"Could not update the last name. Please try again later.")
}

func (s *ProfileService) ChangeDNI(ctx context.Context, identity *domain.Identity, newDNI string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "dni",
		func(u *domain.User) { u.DNI = newDNI },
		"DNI updated successfully.",
		"Could not update the DNI. Please try again later.")
}

func (s *ProfileService) ChangeAddress(ctx context.Context, identity *domain.Identity, newAddress string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "address",
		func(u *domain.User) { u.Address = newAddress },
		"Address updated successfully.",
		"Could not update the address. Please try again later.")
}

func (s *ProfileService) ChangePassword(ctx context.Context, identity *domain.Identity, newPassword string) domain.MutationResult {
	return s.mutateUser(ctx, identity, "password",
		func(u *domain.User) { u.Password = newPassword },
		"Password updated successfully.",
		"Could not update the password. Please try again later.")
}

// SetCard installs or replaces the card on file. The CVC is dropped before
// the record is stored. On success the card form toggle is switched off.
func (s *ProfileService) SetCard(ctx context.Context, identity *domain.Identity, card domain.Card) domain.MutationResult {
	card.CVC = ""
	result := s.mutateUser(ctx, identity, "card",
		func(u *domain.User) { u.Card = card },
		"Card saved successfully.",
		"Could not save the card. Please try again later.")
	if result.Success {
		s.sessions.ToggleCardForm(false)
	}
	return result
}

// DeleteCard replaces the card on file with the empty sentinel.
func (s *ProfileService) DeleteCard(ctx context.Context, identity *domain.Identity) domain.MutationResult {
	return s.mutateUser(ctx, identity, "card",
		func(u *domain.User) { u.Card = domain.EmptyCard() },
		"Card removed successfully.",
		"Could not remove the card. Please try again later.")
}

// AddToLibrary appends purchased films to the user's library. Appends do not
// dedupe: buying the same film twice yields two entries.
func (s *ProfileService) AddToLibrary(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult {
	return s.mutateUser(ctx, identity, "library",
		func(u *domain.User) { u.Library = append(u.Library, films...) },
		"Purchase completed successfully.",
		"Purchase failed. Please try again later.")
}

// ReplaceLibrary swaps the library wholesale; used when a film is returned.
func (s *ProfileService) ReplaceLibrary(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult {
	return s.mutateUser(ctx, identity, "library",
		func(u *domain.User) { u.Library = append([]domain.Film(nil), films...) },
		"Library updated successfully.",
		"Could not update the library. Please try again later.")
}

// ReplaceFavourites swaps the favourites list wholesale.
func (s *ProfileService) ReplaceFavourites(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult {
	return s.mutateUser(ctx, identity, "favourites",
		func(u *domain.User) { u.Favourites = domain.FavouriteList{Films: append([]domain.Film(nil), films...)} },
		"Favourites updated successfully.",
		"Could not update the favourites. Please try again later.")
}

// VerifyUserOrAdmin checks credentials against the cached user collection
// first; only when no user matches does it consult the remote admin
// collection. A match installs the identity into the session. Remote
// failures during the admin lookup resolve to a negative result.
func (s *ProfileService) VerifyUserOrAdmin(ctx context.Context, email, password string) ports.VerifyResult {
	if err := s.sessions.EnsureUserCache(ctx); err != nil {
		s.log.Error().Err(err).Msg("loading user cache for verification failed")
	}

	for _, u := range s.sessions.CachedUsers() {
		if u.Email == email && u.Password == password {
			user := u
			if err := s.sessions.SetCurrent(ctx, domain.UserIdentity(&user)); err != nil {
				s.log.Warn().Err(err).Msg("persisting verified user failed")
			}
			metrics.LoginAttemptsTotal.WithLabelValues("user").Inc()
			return ports.VerifyResult{IsUser: true, User: &user}
		}
	}

	admins, err := s.admins.ListAdmins(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("admin verification failed")
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return ports.VerifyResult{}
	}
	for _, a := range admins {
		if a.Email == email && a.Password == password {
			admin := a
			if err := s.sessions.SetCurrent(ctx, domain.AdminIdentity(&admin)); err != nil {
				s.log.Warn().Err(err).Msg("persisting verified admin failed")
			}
			metrics.LoginAttemptsTotal.WithLabelValues("admin").Inc()
			return ports.VerifyResult{IsAdmin: true, Admin: &admin}
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
	return ports.VerifyResult{}
}

// Register creates a new user record.
func (s *ProfileService) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	exists, err := s.CheckEmailExists(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return created, nil
}

// DeleteAccount removes the user record behind the identity. The session is
// not torn down here; the caller decides whether to log out.
func (s *ProfileService) DeleteAccount(ctx context.Context, identity *domain.Identity) domain.MutationResult {
	if identity == nil || identity.User == nil {
		return domain.MutationResult{Success: false, Message: "Could not delete the account. Please try again later."}
	}
	if err := s.users.Delete(ctx, identity.User.ID); err != nil {
		s.log.Error().Err(err).Int("user_id", identity.User.ID).Msg("account deletion failed")
		return domain.MutationResult{Success: false, Message: "Could not delete the account. Please try again later."}
	}
	return domain.MutationResult{Success: true, Message: "Account deleted successfully."}
}

// CheckEmailExists reports whether any user record carries the email.
// Comparison is case-sensitive, matching how emails are stored.
func (s *ProfileService) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	users, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

// LoadLibraryByID fetches a user record by id, used by admins to inspect a
// customer's library.
func (s *ProfileService) LoadLibraryByID(ctx context.Context, userID int) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}
