package ports

import (
	"context"

	"github.com/filmstore/rental-system/internal/core/domain"
)

// VerifyResult is the discriminated outcome of a credential check. At most
// one of IsUser/IsAdmin is true; the user check short-circuits before any
// admin lookup, so an email can never resolve to both roles.
type VerifyResult struct {
	IsUser  bool          `json:"isUser"`
	IsAdmin bool          `json:"isAdmin"`
	User    *domain.User  `json:"user,omitempty"`
	Admin   *domain.Admin `json:"admin,omitempty"`
}

// ProfileService performs field-level identity mutations against the remote
// store and commits confirmed results into the session. Every mutation
// resolves to a MutationResult; remote failures never escape as errors.
type ProfileService interface {
	ChangeEmail(ctx context.Context, identity *domain.Identity, newEmail string) domain.MutationResult
	ChangeFirstName(ctx context.Context, identity *domain.Identity, newFirstName string) domain.MutationResult
	ChangeLastName(ctx context.Context, identity *domain.Identity, newLastName string) domain.MutationResult
	ChangeDNI(ctx context.Context, identity *domain.Identity, newDNI string) domain.MutationResult
	ChangeAddress(ctx context.Context, identity *domain.Identity, newAddress string) domain.MutationResult
	ChangePassword(ctx context.Context, identity *domain.Identity, newPassword string) domain.MutationResult
	SetCard(ctx context.Context, identity *domain.Identity, card domain.Card) domain.MutationResult
	DeleteCard(ctx context.Context, identity *domain.Identity) domain.MutationResult
	AddToLibrary(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult
	ReplaceLibrary(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult
	ReplaceFavourites(ctx context.Context, identity *domain.Identity, films []domain.Film) domain.MutationResult

	VerifyUserOrAdmin(ctx context.Context, email, password string) VerifyResult
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteAccount(ctx context.Context, identity *domain.Identity) domain.MutationResult
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	LoadLibraryByID(ctx context.Context, userID int) (*domain.User, error)
}
