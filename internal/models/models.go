package models

import "time"

// Account is a registered user of the agenda.
type Account struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"criadoEm"`
}

// Contact is a single agenda entry, always owned by one account.
// JSON field names follow the public interface of the application
// (Portuguese, same as the CSV import/export columns).
type Contact struct {
	ContactID string    `json:"contact_id"`
	AccountID string    `json:"-"`
	Name      string    `json:"nome"`
	Surname   string    `json:"sobrenome"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefone"`
	// PhoneDigits is the digit-only projection of Phone, recomputed on
	// every write. Used for exact-match search independent of formatting.
	PhoneDigits string    `json:"telefoneLimpo"`
	CreatedAt   time.Time `json:"criadoEm"`
}
