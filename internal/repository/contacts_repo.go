package repository

import (
	"context"
	"errors"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/validation"
)

// ErrNotFound means the record does not exist. Owner mismatches are reported
// the same way, so callers cannot tell absence from someone else's record.
var ErrNotFound = errors.New("record not found")

// ContactsRepo is the contact persistence contract. Every operation that
// reads or mutates on behalf of a user is scoped by the owner account id.
type ContactsRepo interface {
	// Create persists a validated input for the given owner.
	Create(ctx context.Context, ownerID string, in validation.ContactInput) (*models.Contact, error)
	// FindByID returns the contact or ErrNotFound. A malformed id is
	// absence, not an error.
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	// Update replaces the full mutable field set of an existing contact.
	// The ownership check is the caller's responsibility.
	Update(ctx context.Context, id string, in validation.ContactInput) (*models.Contact, error)
	// Delete removes exactly one contact and returns the removed record.
	Delete(ctx context.Context, id string) (*models.Contact, error)
	// DeleteAllForOwner removes every contact of the owner. Zero contacts
	// is a no-op, not an error.
	DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error)
	// Search matches term case-insensitively against name, surname, email
	// and formatted phone, or exactly against the digit projection of the
	// phone. Empty term lists everything. Results are name-ordered per
	// order ("asc"/"desc") and paginated at the query level.
	Search(ctx context.Context, term, ownerID, order string, offset, limit int) ([]models.Contact, error)
	// CountBySearch counts with the identical predicate Search uses, so
	// pagination totals stay consistent with listable rows.
	CountBySearch(ctx context.Context, term, ownerID string) (int, error)
	// ListForOwner returns every contact of the owner, newest first.
	ListForOwner(ctx context.Context, ownerID string) ([]models.Contact, error)
	// CountForOwner counts every contact of the owner.
	CountForOwner(ctx context.Context, ownerID string) (int, error)
}
