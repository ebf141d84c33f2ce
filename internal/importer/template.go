package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// The downloadable template keeps the historical Spanish column names so
// files exported years ago still round-trip.
var templateHeader = []string{"Título", "Estado", "Nota"}

var templateExamples = [][]string{
	{"El nombre del viento", "Leyendo", ""},
	{"The Last of Us", "Terminado", "9"},
	{"Dark", "Pendiente", ""},
}

// WriteTemplateCSV writes the import template with example rows.
func WriteTemplateCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(templateHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range templateExamples {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write example row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTemplateXLSX writes the same template as a single-sheet workbook.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := append([][]string{templateHeader}, templateExamples...)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}
