package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"github.com/google/uuid"
)

// MemoryContactsRepo is an in-memory ContactsRepo for local development and
// tests, with the same visible semantics as the Postgres implementation
// (owner scoping, digit-projection search, query-level pagination).
type MemoryContactsRepo struct {
	mu       sync.RWMutex
	contacts map[string]models.Contact
	seq      int
}

func NewMemoryContactsRepo() *MemoryContactsRepo {
	return &MemoryContactsRepo{contacts: map[string]models.Contact{}}
}

var _ ContactsRepo = (*MemoryContactsRepo)(nil)

func (r *MemoryContactsRepo) Create(_ context.Context, ownerID string, in validation.ContactInput) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	c := models.Contact{
		ContactID:   uuid.NewString(),
		AccountID:   ownerID,
		Name:        in.Name,
		Surname:     in.Surname,
		Email:       in.Email,
		Phone:       in.Phone,
		PhoneDigits: in.PhoneDigits,
		// strictly increasing timestamps keep newest-first listings stable
		CreatedAt: time.Now().Add(time.Duration(r.seq) * time.Microsecond),
	}
	r.contacts[c.ContactID] = c
	return &c, nil
}

func (r *MemoryContactsRepo) FindByID(_ context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryContactsRepo) Update(_ context.Context, id string, in validation.ContactInput) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Name, c.Surname, c.Email, c.Phone, c.PhoneDigits = in.Name, in.Surname, in.Email, in.Phone, in.PhoneDigits
	r.contacts[id] = c
	return &c, nil
}

func (r *MemoryContactsRepo) Delete(_ context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.contacts, id)
	return &c, nil
}

func (r *MemoryContactsRepo) DeleteAllForOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, c := range r.contacts {
		if c.AccountID == ownerID {
			delete(r.contacts, id)
			n++
		}
	}
	return n, nil
}

// matching applies the shared search predicate: case-insensitive substring
// over name/surname/email/phone, or exact digit-projection match when the
// term carries digits.
func (r *MemoryContactsRepo) matching(term, ownerID string) []models.Contact {
	term = strings.TrimSpace(term)
	lower := strings.ToLower(term)
	digits := validation.PhoneDigits(term)

	var out []models.Contact
	for _, c := range r.contacts {
		if c.AccountID != ownerID {
			continue
		}
		if term == "" {
			out = append(out, c)
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Surname), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(strings.ToLower(c.Phone), lower) ||
			(digits != "" && c.PhoneDigits == digits) {
			out = append(out, c)
		}
	}
	return out
}

func (r *MemoryContactsRepo) Search(_ context.Context, term, ownerID, order string, offset, limit int) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.matching(term, ownerID)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			if order == "desc" {
				return a > b
			}
			return a < b
		}
		return out[i].ContactID < out[j].ContactID
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryContactsRepo) CountBySearch(_ context.Context, term, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(term, ownerID)), nil
}

func (r *MemoryContactsRepo) ListForOwner(_ context.Context, ownerID string) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.matching("", ownerID)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryContactsRepo) CountForOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching("", ownerID)), nil
}
