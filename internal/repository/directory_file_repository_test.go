package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

func TestFileDirectoryRepository_LoadMissing(t *testing.T) {
	repo := NewFileDirectoryRepository(filepath.Join(t.TempDir(), "employee_database.json"))

	dir, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, dir.Len())
	require.Empty(t, dir.Companies())
}

func TestFileDirectoryRepository_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "employee_database.json")
	repo := NewFileDirectoryRepository(path)
	ctx := context.Background()

	people := []domain.PersonRecord{
		{Name: "John Smith", Email: "a@acme.com", Surname: "Smith", GivenNames: "John", Company: "acme.com", Source: domain.PersonSourceAuto, TeamID: "t1", TeamEmails: []string{"a@acme.com", "b@gmail.com"}},
		{Name: "Jane Doe", Email: "b@gmail.com", Surname: "Doe", GivenNames: "Jane", Company: "Initech", Source: domain.PersonSourceManual, TeamID: "t1", TeamEmails: []string{"a@acme.com", "b@gmail.com"}},
	}
	require.NoError(t, repo.Save(ctx, domain.NewDirectory(people, []string{"globex.com"})))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, people, loaded.People())
	require.Equal(t, []string{"Initech", "acme.com", "globex.com"}, loaded.Companies())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileDirectoryRepository_ReadsDocumentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee_database.json")
	doc := `{"employees":[{"name":"Иван Петров","email":"ivan@globex.ru","company":"globex.ru","source":"auto"}],"companies":["globex.ru"]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	dir, err := NewFileDirectoryRepository(path).Load(context.Background())
	require.NoError(t, err)
	person, ok := dir.Get("ivan@globex.ru")
	require.True(t, ok)
	require.Equal(t, "Иван Петров", person.Name)
}

func TestFileDirectoryRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee_database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileDirectoryRepository(path).Load(context.Background())
	require.Error(t, err)
}
