package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"go.uber.org/zap"
)

var (
	// ErrInvalidFormat means the CSV header is missing a required column
	// (or the stream is not parseable at all). Nothing is mutated.
	ErrInvalidFormat = errors.New("Arquivo CSV em formato inválido.")
	// ErrNoUsableRows means every data row was empty. Nothing is mutated.
	ErrNoUsableRows = errors.New("Nenhum contato válido para importar.")
)

// importColumns are the required header names, exactly as exported
// (case-sensitive, any order; extra columns are ignored).
var importColumns = []string{"nome", "sobrenome", "email", "telefone"}

// ImportReport summarizes one finished import.
type ImportReport struct {
	Imported int      // rows inserted as contacts
	Errors   []string // per-row validation failures (batch went on)
	Skipped  []string // all-empty rows, noted but not counted as errors
}

// ImportService replaces a user's whole contact set from a CSV stream:
// header validation, row streaming, then delete-all + insert of the usable
// rows. Per-row validation failures are collected, not fatal to the batch.
//
// The replace is delete-then-insert, not transactional: rows that fail
// validation after the delete are gone. This mirrors the reference behavior
// and is a known data-loss hazard, kept pending a product decision.
type ImportService interface {
	ImportCSV(ctx context.Context, ownerID string, src io.Reader) (*ImportReport, error)
}

type importService struct {
	contacts repository.ContactsRepo
	logger   *zap.Logger
}

func NewImportService(contacts repository.ContactsRepo, logger *zap.Logger) ImportService {
	return &importService{contacts: contacts, logger: logger}
}

// importRow is one streamed, trimmed data row.
type importRow struct {
	line int // 1-based line number in the file, header included
	raw  map[string]any
}

func (s *importService) ImportCSV(ctx context.Context, ownerID string, src io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrInvalidFormat
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var rows []importRow

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		raw := map[string]any{}
		empty := true
		for _, col := range importColumns {
			value := ""
			if i := index[col]; i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			raw[col] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			report.Skipped = append(report.Skipped, fmt.Sprintf("linha %d ignorada (vazia)", line))
			continue
		}
		rows = append(rows, importRow{line: line, raw: raw})
	}

	if len(rows) == 0 {
		return nil, ErrNoUsableRows
	}

	// Point of no return: the existing contact set is replaced.
	if _, err := s.contacts.DeleteAllForOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	for _, row := range rows {
		res := validation.Check(row.raw)
		if !res.OK() {
			report.Errors = append(report.Errors,
				fmt.Sprintf("linha %d: %s", row.line, strings.Join(res.Violations, " ")))
			continue
		}
		if _, err := s.contacts.Create(ctx, ownerID, res.Input); err != nil {
			return nil, err
		}
		report.Imported++
	}

	s.logger.Info("CSV import finished",
		zap.String("account_id", ownerID),
		zap.Int("imported", report.Imported),
		zap.Int("errors", len(report.Errors)),
		zap.Int("skipped", len(report.Skipped)))

	return report, nil
}

// headerIndex maps each required column to its position in the header row.
func headerIndex(header []string) (map[string]int, error) {
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, ErrInvalidFormat
		}
	}
	return index, nil
}
