package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const listingCSV = "Компания;Контакты\n" +
	"ACME;Проект (John Smith john@acme.com / Jane Doe jane@gmail.com)\n"

const exportCSV = "ID;Шаг;Рабочий процесс;Дата и время создания согласования;Проверили на текущем шаге;Не проверили на текущем шаге\n" +
	"c-1;Шаг 1;Договор поставки;2024-02-05 10:00:00;;John Smith, Jane Doe\n"

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMatchDirectory(t *testing.T) {
	t.Setenv("DIRECTORY_BACKEND", "file")
	t.Setenv("AUDIT_POLICY_FILE", "")
	t.Setenv("AUDIT_TIMEZONE", "UTC")

	tmp := t.TempDir()
	dbFile := filepath.Join(tmp, "employee_database.json")
	listing := writeInput(t, tmp, "companies.csv", listingCSV)
	export := writeInput(t, tmp, "coordinations.csv", exportCSV)
	ctx := context.Background()
	globals := &Globals{Version: "test"}

	out := captureOutput(t)
	load := &LoadCmd{File: listing, DirectoryFile: dbFile}
	require.NoError(t, load.Run(ctx, globals))
	require.Contains(t, out.String(), "added 1")
	require.Contains(t, out.String(), "jane@gmail.com")

	out.Reset()
	load.Assign = map[string]string{"jane@gmail.com": "ACME Ltd"}
	require.NoError(t, load.Run(ctx, globals))
	require.Contains(t, out.String(), "2 people in directory")

	out.Reset()
	emailsOut := filepath.Join(tmp, "emails.txt")
	xlsxOut := filepath.Join(tmp, "overdue.xlsx")
	match := &MatchCmd{File: export, Date: "2024-02-20", DirectoryFile: dbFile, EmailsOut: emailsOut, XlsxOut: xlsxOut}
	require.NoError(t, match.Run(ctx, globals))
	require.Contains(t, out.String(), "1 overdue")
	require.Contains(t, out.String(), "ACME Ltd")

	emails, err := os.ReadFile(emailsOut)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"jane@gmail.com", "john@acme.com"}, strings.Fields(string(emails)))
	_, err = os.Stat(xlsxOut)
	require.NoError(t, err)

	out.Reset()
	dirCmd := &DirectoryCmd{Search: "smith", Limit: 5, DirectoryFile: dbFile}
	require.NoError(t, dirCmd.Run(ctx, globals))
	require.Contains(t, out.String(), "john@acme.com")
	require.Contains(t, out.String(), "1 people")
}

func TestMatchRejectsBadDate(t *testing.T) {
	t.Setenv("DIRECTORY_BACKEND", "file")
	tmp := t.TempDir()
	export := writeInput(t, tmp, "coordinations.csv", exportCSV)

	match := &MatchCmd{File: export, Date: "10.01.2024", DirectoryFile: filepath.Join(tmp, "db.json")}
	require.Error(t, match.Run(context.Background(), &Globals{}))
}
