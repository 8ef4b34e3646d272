package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFid; Шаг ;Рабочий процесс\n" +
		"42;Шаг 1;\"Согласование; раздел КР\"\n" +
		"43\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"id", "Шаг", "Рабочий процесс"}, table.Header())
	require.Equal(t, 2, table.Len())

	row := table.Row(0)
	step, ok := row.Get("Шаг")
	require.True(t, ok)
	require.Equal(t, "Шаг 1", step)
	workflow, _ := row.Get("Рабочий процесс")
	require.Equal(t, "Согласование; раздел КР", workflow)

	short := table.Row(1)
	v, ok := short.Get("Шаг")
	require.True(t, ok)
	require.Empty(t, v)
	_, ok = short.Get("missing")
	require.False(t, ok)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read("data.json", strings.NewReader("{}"))
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "Шаг"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"7", "Шаг 2"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	table, err := Read("coordinations.XLSX", &buf)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	step, ok := table.Row(0).Get("Шаг")
	require.True(t, ok)
	require.Equal(t, "Шаг 2", step)
}

func TestReadXLSX_DateCells(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "created", "due", "amount", "price"}))

	ruDate := "dd.mm.yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &ruDate})
	require.NoError(t, err)
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue("Sheet1", "A2", "c-1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C2", dateStyle))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "D2", 42))
	require.NoError(t, f.SetCellStyle("Sheet1", "E2", "E2", priceStyle))
	require.NoError(t, f.SetCellValue("Sheet1", "E2", 3.5))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	table, err := ReadXLSX(&buf)
	require.NoError(t, err)
	row := table.Row(0)

	tests := []struct {
		column string
		want   string
	}{
		{column: "id", want: "c-1"},
		{column: "created", want: "2024-01-02 10:00:00"},
		{column: "due", want: "2024-03-04 00:00:00"},
		{column: "amount", want: "42"},
		{column: "price", want: "3.50"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, ok := row.Get(tt.column)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHasDateTokens(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "dd.mm.yyyy hh:mm", want: true},
		{code: "[$-419]d mmmm yyyy", want: true},
		{code: "0.00", want: false},
		{code: `#,##0 "days"`, want: false},
		{code: "[Red]0.0%", want: false},
		{code: `0\ "h"`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.want, hasDateTokens(tt.code))
		})
	}
}

func TestTableCells(t *testing.T) {
	table := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	require.Equal(t, []string{"a", "b", "1", "2", "3"}, table.Cells())
}

func TestWriteDetailsXLSX(t *testing.T) {
	details := []domain.OverdueDetail{{
		ID:              "42",
		Companies:       []string{"acme.com", "globex.com"},
		StartDate:       time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
		Deadline:        time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC),
		WorkingDays:     3,
		NotCheckedCount: 2,
		Explanation:     "Stage 2: no keywords found, using default 3 days",
		Emails:          []string{"a@acme.com", "b@globex.com"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteDetailsXLSX(&buf, details))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DetailsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "id", rows[0][0])
	require.Equal(t, "42", rows[1][0])
	require.Equal(t, "acme.com, globex.com", rows[1][1])
	require.Equal(t, "2024-01-05", rows[1][3])
	require.Equal(t, "3", rows[1][4])
	require.Equal(t, "a@acme.com, b@globex.com", rows[1][7])
}

func TestWriteEmails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEmails(&buf, []string{"a@acme.com", "b@acme.com"}))
	require.Equal(t, "a@acme.com\nb@acme.com", buf.String())
}
