package service

import (
	"context"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"go.uber.org/zap"
)

// Page defaults of the search endpoint.
const (
	DefaultOrder = "asc"
	DefaultLimit = 5
	DefaultPage  = 1
)

// SearchQuery carries the caller's search/pagination parameters.
type SearchQuery struct {
	Term  string
	Order string // "asc" | "desc"
	Page  int    // 1-based
	Limit int
}

// Normalized applies the endpoint defaults to out-of-range values.
func (q SearchQuery) Normalized() SearchQuery {
	if q.Order != "asc" && q.Order != "desc" {
		q.Order = DefaultOrder
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

// Offset is the query-level row offset of the page.
func (q SearchQuery) Offset() int { return (q.Page - 1) * q.Limit }

// SearchPage is one page of search results plus the pagination totals.
type SearchPage struct {
	Contacts   []models.Contact `json:"contatos"`
	Total      int              `json:"totalContatos"`
	TotalPages int              `json:"totalPaginas"`
	Page       int              `json:"paginaAtual"`
	Limit      int              `json:"limite"`
	Order      string           `json:"ordem"`
	Term       string           `json:"termo"`
}

// ContactService sits between the HTTP layer and the contact repository:
// it validates payloads, enforces ownership, and computes pagination totals.
// Cross-owner ids are answered with repository.ErrNotFound, indistinguishable
// from true absence.
type ContactService interface {
	Create(ctx context.Context, ownerID string, raw map[string]any) (*models.Contact, []string, error)
	Get(ctx context.Context, ownerID, id string) (*models.Contact, error)
	Update(ctx context.Context, ownerID, id string, raw map[string]any) (*models.Contact, []string, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Contact, error)
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
	List(ctx context.Context, ownerID string) ([]models.Contact, error)
	Search(ctx context.Context, ownerID string, q SearchQuery) (*SearchPage, error)
}

type contactService struct {
	contacts repository.ContactsRepo
	logger   *zap.Logger
}

func NewContactService(contacts repository.ContactsRepo, logger *zap.Logger) ContactService {
	return &contactService{contacts: contacts, logger: logger}
}

func (s *contactService) Create(ctx context.Context, ownerID string, raw map[string]any) (*models.Contact, []string, error) {
	res := validation.Check(raw)
	if !res.OK() {
		return nil, res.Violations, nil
	}

	contact, err := s.contacts.Create(ctx, ownerID, res.Input)
	if err != nil {
		return nil, nil, err
	}
	return contact, nil, nil
}

// owned loads a contact and verifies it belongs to ownerID.
func (s *contactService) owned(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.AccountID != ownerID {
		return nil, repository.ErrNotFound
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	return s.owned(ctx, ownerID, id)
}

func (s *contactService) Update(ctx context.Context, ownerID, id string, raw map[string]any) (*models.Contact, []string, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, nil, err
	}

	res := validation.Check(raw)
	if !res.OK() {
		return nil, res.Violations, nil
	}

	contact, err := s.contacts.Update(ctx, id, res.Input)
	if err != nil {
		return nil, nil, err
	}
	return contact, nil, nil
}

func (s *contactService) Delete(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.contacts.Delete(ctx, id)
}

func (s *contactService) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	n, err := s.contacts.DeleteAllForOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("contacts removed", zap.String("account_id", ownerID), zap.Int64("count", n))
	return n, nil
}

func (s *contactService) List(ctx context.Context, ownerID string) ([]models.Contact, error) {
	return s.contacts.ListForOwner(ctx, ownerID)
}

func (s *contactService) Search(ctx context.Context, ownerID string, q SearchQuery) (*SearchPage, error) {
	q = q.Normalized()

	contacts, err := s.contacts.Search(ctx, q.Term, ownerID, q.Order, q.Offset(), q.Limit)
	if err != nil {
		return nil, err
	}

	total, err := s.contacts.CountBySearch(ctx, q.Term, ownerID)
	if err != nil {
		return nil, err
	}

	totalPages := (total + q.Limit - 1) / q.Limit

	return &SearchPage{
		Contacts:   contacts,
		Total:      total,
		TotalPages: totalPages,
		Page:       q.Page,
		Limit:      q.Limit,
		Order:      q.Order,
		Term:       q.Term,
	}, nil
}
