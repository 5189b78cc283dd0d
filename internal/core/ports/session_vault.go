package ports

import (
	"context"

	"github.com/filmstore/rental-system/internal/core/domain"
)

// SessionVault is the single-slot persistent identity register. Every Save
// overwrites the slot wholesale; there is no concurrency token, the last
// writer wins.
type SessionVault interface {
	// Save serializes the identity into the slot.
	Save(ctx context.Context, identity *domain.Identity) error
	// Load returns the stored identity, or domain.ErrNoStoredIdentity when
	// the slot is empty or holds an undecodable record.
	Load(ctx context.Context) (*domain.Identity, error)
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}
