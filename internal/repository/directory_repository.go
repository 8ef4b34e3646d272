package repository

import (
	"context"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

// DirectoryRepository persists the people directory and its company set.
// Load returns an empty directory when nothing has been stored yet.
type DirectoryRepository interface {
	Load(ctx context.Context) (*domain.Directory, error)
	Save(ctx context.Context, dir *domain.Directory) error
}

// directoryDocument is the serialized form shared by the file and Redis stores.
type directoryDocument struct {
	Employees []domain.PersonRecord `json:"employees"`
	Companies []string              `json:"companies"`
}

func documentOf(dir *domain.Directory) directoryDocument {
	return directoryDocument{Employees: dir.People(), Companies: dir.Companies()}
}

func (d directoryDocument) directory() *domain.Directory {
	return domain.NewDirectory(d.Employees, d.Companies)
}
