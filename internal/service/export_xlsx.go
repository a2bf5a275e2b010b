package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Contatos"

func (s *exportService) XLSX(ctx context.Context, ownerID string) ([]byte, error) {
	contacts, err := s.contacts.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	sortByName(contacts)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(xlsxSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(xlsxSheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(xlsxSheetName, "A", "D", 25); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}

	for row, c := range contacts {
		values := []string{c.Name, c.Surname, c.Email, c.Phone}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(xlsxSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
