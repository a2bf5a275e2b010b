package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"github.com/google/uuid"
)

// PostgresContactsRepo is the Postgres implementation of ContactsRepo.
type PostgresContactsRepo struct {
	db *sql.DB
}

func NewPostgresContactsRepo(db *sql.DB) *PostgresContactsRepo {
	return &PostgresContactsRepo{db: db}
}

var _ ContactsRepo = (*PostgresContactsRepo)(nil)

const contactColumns = `contact_id::text, account_id::text, name, surname, email, phone, phone_digits, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ContactID,
		&c.AccountID,
		&c.Name,
		&c.Surname,
		&c.Email,
		&c.Phone,
		&c.PhoneDigits,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresContactsRepo) Create(ctx context.Context, ownerID string, in validation.ContactInput) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (contact_id, account_id, name, surname, email, phone, phone_digits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), ownerID, in.Name, in.Surname, in.Email, in.Phone, in.PhoneDigits))
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}
	return c, nil
}

func (r *PostgresContactsRepo) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	// Malformed ids are absence, not errors.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}
	return c, nil
}

func (r *PostgresContactsRepo) Update(ctx context.Context, id string, in validation.ContactInput) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `
		UPDATE contacts
		   SET name = $2, surname = $3, email = $4, phone = $5, phone_digits = $6
		 WHERE contact_id = $1
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		id, in.Name, in.Surname, in.Email, in.Phone, in.PhoneDigits))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return c, nil
}

func (r *PostgresContactsRepo) Delete(ctx context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `DELETE FROM contacts WHERE contact_id = $1 RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}
	return c, nil
}

func (r *PostgresContactsRepo) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE account_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted contacts: %w", err)
	}
	return n, nil
}

// searchPredicate builds the shared WHERE clause of Search and CountBySearch.
// Substring match is case-insensitive over name/surname/email/phone; when the
// term carries digits it additionally matches the phone digit projection
// exactly, so "(21)91234-5678" is found by "21912345678".
func searchPredicate(term, ownerID string) (where string, args []any) {
	args = []any{ownerID}
	where = `account_id = $1`

	term = strings.TrimSpace(term)
	if term == "" {
		return where, args
	}

	args = append(args, "%"+escapeLike(term)+"%")
	clause := fmt.Sprintf(`(name ILIKE $%d OR surname ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d`,
		len(args), len(args), len(args), len(args))

	if digits := validation.PhoneDigits(term); digits != "" {
		args = append(args, digits)
		clause += fmt.Sprintf(` OR phone_digits = $%d`, len(args))
	}
	clause += `)`

	return where + ` AND ` + clause, args
}

// escapeLike neutralizes ILIKE metacharacters in a user-supplied term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func orderDirection(order string) string {
	if order == "desc" {
		return "DESC"
	}
	return "ASC"
}

func (r *PostgresContactsRepo) Search(ctx context.Context, term, ownerID, order string, offset, limit int) ([]models.Contact, error) {
	where, args := searchPredicate(term, ownerID)

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+contactColumns+`
		  FROM contacts
		 WHERE %s
		 ORDER BY LOWER(name) %s, contact_id ASC
		 LIMIT $%d OFFSET $%d`,
		where, orderDirection(order), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *PostgresContactsRepo) CountBySearch(ctx context.Context, term, ownerID string) (int, error) {
	where, args := searchPredicate(term, ownerID)

	var count int
	query := `SELECT COUNT(*) FROM contacts WHERE ` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (r *PostgresContactsRepo) ListForOwner(ctx context.Context, ownerID string) ([]models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		  FROM contacts
		 WHERE account_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *PostgresContactsRepo) CountForOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE account_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}
