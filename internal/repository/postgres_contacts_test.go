package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerID   = "6a8ff3a1-37d4-4f39-9be2-0a4e7c55b001"
	testContactID = "0d4b2c3e-5e0a-4a8e-b9a4-1f2e3d4c5b6a"
)

func setupContactsMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresContactsRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresContactsRepo(db)
}

func contactRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"contact_id", "account_id", "name", "surname", "email", "phone", "phone_digits", "created_at",
	})
}

func TestContactsCreate(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	in := validation.ContactInput{
		Name:        "Marcelo",
		Email:       "marcelo@email.com",
		Phone:       "(21)91234-5678",
		PhoneDigits: "21912345678",
	}

	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs(sqlmock.AnyArg(), testOwnerID, "Marcelo", "", "marcelo@email.com", "(21)91234-5678", "21912345678").
		WillReturnRows(contactRows().AddRow(
			testContactID, testOwnerID, "Marcelo", "", "marcelo@email.com", "(21)91234-5678", "21912345678", time.Now(),
		))

	c, err := repo.Create(context.Background(), testOwnerID, in)
	require.NoError(t, err)
	assert.Equal(t, testContactID, c.ContactID)
	assert.Equal(t, testOwnerID, c.AccountID)
	assert.Equal(t, "21912345678", c.PhoneDigits)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsFindByID_NotFound(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM contacts WHERE contact_id`).
		WithArgs(testContactID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), testContactID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsFindByID_MalformedID(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	// Absence, not an error, and no query reaches the database.
	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsUpdate(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	in := validation.ContactInput{
		Name:        "Atualizado",
		Phone:       "(21)99999-9999",
		PhoneDigits: "21999999999",
	}

	mock.ExpectQuery(`UPDATE contacts`).
		WithArgs(testContactID, "Atualizado", "", "", "(21)99999-9999", "21999999999").
		WillReturnRows(contactRows().AddRow(
			testContactID, testOwnerID, "Atualizado", "", "", "(21)99999-9999", "21999999999", time.Now(),
		))

	c, err := repo.Update(context.Background(), testContactID, in)
	require.NoError(t, err)
	assert.Equal(t, "Atualizado", c.Name)
	// The full mutable field set is replaced, including now-empty fields.
	assert.Equal(t, "", c.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsDelete_ReturnsRemovedRecord(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`DELETE FROM contacts WHERE contact_id`).
		WithArgs(testContactID).
		WillReturnRows(contactRows().AddRow(
			testContactID, testOwnerID, "Apagar", "", "", "(21)91111-1111", "21911111111", time.Now(),
		))

	c, err := repo.Delete(context.Background(), testContactID)
	require.NoError(t, err)
	assert.Equal(t, "Apagar", c.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsDeleteAllForOwner_NoContactsIsNoOp(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM contacts WHERE account_id`).
		WithArgs(testOwnerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteAllForOwner(context.Background(), testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsSearch_TermWithDigitsMatchesPhoneProjection(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM contacts`).
		WithArgs(testOwnerID, "%21912345678%", "21912345678", 5, 0).
		WillReturnRows(contactRows().AddRow(
			testContactID, testOwnerID, "Marcelo", "", "", "(21)91234-5678", "21912345678", time.Now(),
		))

	contacts, err := repo.Search(context.Background(), "21912345678", testOwnerID, "asc", 0, 5)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "(21)91234-5678", contacts[0].Phone)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsSearch_EmptyTermListsAllForOwner(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM contacts`).
		WithArgs(testOwnerID, 10, 0).
		WillReturnRows(contactRows().
			AddRow(testContactID, testOwnerID, "Ana", "", "ana@email.com", "", "", time.Now()).
			AddRow("f3b4c5d6-0000-4000-8000-000000000002", testOwnerID, "Bruno", "", "", "(21)1234-5678", "2112345678", time.Now()))

	contacts, err := repo.Search(context.Background(), "", testOwnerID, "asc", 0, 10)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsCountBySearch_SamePredicateArguments(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts`).
		WithArgs(testOwnerID, `%Maria%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountBySearch(context.Background(), "Maria", testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPredicate_EscapesLikeMetacharacters(t *testing.T) {
	_, args := searchPredicate("100%", testOwnerID)
	require.Len(t, args, 3)
	assert.Equal(t, `%100\%%`, args[1])
	// "100%" still carries digits, so the projection clause applies.
	assert.Equal(t, "100", args[2])
}

func TestSearchPredicate_NonNumericTermSkipsPhoneProjection(t *testing.T) {
	_, args := searchPredicate("Maria", testOwnerID)
	// owner id + ILIKE pattern only; no digits to match against.
	assert.Len(t, args, 2)
}

func TestContactsListForOwner_NewestFirstQuery(t *testing.T) {
	db, mock, repo := setupContactsMock(t)
	defer db.Close()

	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(testOwnerID).
		WillReturnRows(contactRows())

	contacts, err := repo.ListForOwner(context.Background(), testOwnerID)
	require.NoError(t, err)
	assert.Len(t, contacts, 0)

	assert.NoError(t, mock.ExpectationsWereMet())
}
