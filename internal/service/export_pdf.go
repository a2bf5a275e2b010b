package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/models"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Column layout of the PDF table, in mm (A4 portrait, 190mm printable).
var pdfColumns = []struct {
	title string
	width float64
}{
	{"#", 10},
	{"Nome", 48},
	{"Sobrenome", 38},
	{"Email", 56},
	{"Telefone", 38},
}

func (s *exportService) PDF(ctx context.Context, ownerID string, q PDFQuery) (string, error) {
	contacts, err := s.matchingContacts(ctx, ownerID, q)
	if err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "", ErrNoContacts
	}

	path, err := s.renderPDF(contacts, q.Search.Term)
	if err != nil {
		return "", err
	}

	s.logger.Info("PDF export generated",
		zap.String("account_id", ownerID),
		zap.String("mode", q.Mode),
		zap.Int("rows", len(contacts)))

	return path, nil
}

func (s *exportService) renderPDF(contacts []models.Contact, term string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	title := "Agenda de Contatos"
	if term != "" {
		title = fmt.Sprintf("Agenda de Contatos – Filtro: %s", term)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6,
		tr(fmt.Sprintf("Gerado em: %s", time.Now().Format("02/01/2006 15:04"))),
		"", 1, "R", false, 0, "")
	pdf.Ln(4)

	// header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 243, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i, c := range contacts {
		cells := []string{strconv.Itoa(i + 1), c.Name, c.Surname, c.Email, c.Phone}
		for j, col := range pdfColumns {
			align := "L"
			if j == 0 {
				align = "C"
			}
			pdf.CellFormat(col.width, 6, tr(cells[j]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	out, err := os.CreateTemp(s.dir, "agenda-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	path := out.Name()
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return path, nil
}
