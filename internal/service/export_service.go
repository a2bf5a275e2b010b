package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/repository"

	"go.uber.org/zap"
)

// ErrNoContacts means there is nothing to export. Callers answer with an
// explicit "no content" signal instead of producing an empty file.
var ErrNoContacts = errors.New("Nenhum contato encontrado para exportar.")

// Export modes of the PDF endpoint (query parameter "tipo").
const (
	ExportAll  = "todos"  // everything matching the filter, capped at maxRows
	ExportPage = "pagina" // only the rows of the on-screen page
)

// ErrInvalidExportMode means "tipo" was neither "todos" nor "pagina".
var ErrInvalidExportMode = errors.New("Tipo de exportação inválido.")

// PDFQuery selects what the PDF export renders: the mode plus the same
// search/pagination parameters the on-screen list uses.
type PDFQuery struct {
	Mode   string
	Search SearchQuery
}

// ExportService turns a user's contact set into downloadable CSV, PDF and
// XLSX documents.
type ExportService interface {
	// CSV exports every contact, name-sorted, as quoted CSV bytes.
	CSV(ctx context.Context, ownerID string) ([]byte, error)
	// PDF renders a table document into a transient file under the
	// configured scratch dir and returns its path. Removing the file
	// after streaming is the caller's responsibility.
	PDF(ctx context.Context, ownerID string, q PDFQuery) (string, error)
	// XLSX exports every contact as a styled spreadsheet.
	XLSX(ctx context.Context, ownerID string) ([]byte, error)
}

type exportService struct {
	contacts repository.ContactsRepo
	dir      string
	maxRows  int
	logger   *zap.Logger
}

func NewExportService(contacts repository.ContactsRepo, dir string, maxRows int, logger *zap.Logger) ExportService {
	return &exportService{contacts: contacts, dir: dir, maxRows: maxRows, logger: logger}
}

// exportHeader is the shared column set of every export format, matching the
// CSV import headers.
var exportHeader = []string{"nome", "sobrenome", "email", "telefone"}

func (s *exportService) CSV(ctx context.Context, ownerID string) ([]byte, error) {
	contacts, err := s.contacts.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	sortByName(contacts)

	var buf bytes.Buffer
	writeQuotedRow(&buf, exportHeader)
	for _, c := range contacts {
		writeQuotedRow(&buf, []string{c.Name, c.Surname, c.Email, c.Phone})
	}
	return buf.Bytes(), nil
}

// sortByName orders contacts by name, case-insensitively, ties broken by id
// so repeated exports of the same data are byte-identical.
func sortByName(contacts []models.Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		a := strings.ToLower(contacts[i].Name)
		b := strings.ToLower(contacts[j].Name)
		if a != b {
			return a < b
		}
		return contacts[i].ContactID < contacts[j].ContactID
	})
}

// writeQuotedRow writes one CSV record with every field quoted, the format
// the original application produced and its consumers expect.
func writeQuotedRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\n")
}

// matchingContacts resolves the row set of a PDF export query.
func (s *exportService) matchingContacts(ctx context.Context, ownerID string, q PDFQuery) ([]models.Contact, error) {
	search := q.Search.Normalized()

	switch q.Mode {
	case ExportAll:
		return s.contacts.Search(ctx, search.Term, ownerID, search.Order, 0, s.maxRows)
	case ExportPage:
		return s.contacts.Search(ctx, search.Term, ownerID, search.Order, search.Offset(), search.Limit)
	default:
		return nil, ErrInvalidExportMode
	}
}
