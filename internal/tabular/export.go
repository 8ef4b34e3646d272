package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

// DetailsSheet is the sheet name of the overdue detail export.
const DetailsSheet = "Coordination Details"

const dateLayout = "2006-01-02"

var detailHeaders = []string{
	"id", "company", "start_date", "deadline", "working_days",
	"not_checked_count", "explanation", "emails",
}

// WriteDetailsXLSX renders overdue details as a single-sheet workbook.
func WriteDetailsXLSX(w io.Writer, details []domain.OverdueDetail) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DetailsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(DetailsSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetRowStyle(DetailsSheet, 1, 1, headerStyle)
	}

	for i, d := range details {
		row := []any{
			d.ID,
			strings.Join(d.Companies, ", "),
			d.StartDate.Format(dateLayout),
			d.Deadline.Format(dateLayout),
			d.WorkingDays,
			d.NotCheckedCount,
			d.Explanation,
			strings.Join(d.Emails, ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DetailsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(DetailsSheet, "A", "A", 20)
	_ = f.SetColWidth(DetailsSheet, "B", "B", 30)
	_ = f.SetColWidth(DetailsSheet, "G", "H", 50)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteEmails writes one email per line.
func WriteEmails(w io.Writer, emails []string) error {
	_, err := io.WriteString(w, strings.Join(emails, "\n"))
	return err
}
