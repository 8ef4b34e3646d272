package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository instantiates the PostgreSQL-backed repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) Load(ctx context.Context) (*domain.Directory, error) {
	const peopleQuery = `
        SELECT email, name, normalized_name, surname, given_names, company, source, team_id, team_emails
        FROM directory_people ORDER BY id`

	rows, err := r.pool.Query(ctx, peopleQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []domain.PersonRecord
	for rows.Next() {
		var p domain.PersonRecord
		if err := rows.Scan(
			&p.Email,
			&p.Name,
			&p.NormalizedName,
			&p.Surname,
			&p.GivenNames,
			&p.Company,
			&p.Source,
			&p.TeamID,
			&p.TeamEmails,
		); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	companyRows, err := r.pool.Query(ctx, `SELECT name FROM directory_companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	companies, err := pgx.CollectRows(companyRows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return domain.NewDirectory(people, companies), nil
}

// Save appends people and companies not yet stored. The whole batch commits or none of it does.
func (r *directoryRepository) Save(ctx context.Context, dir *domain.Directory) (err error) {
	const insertPerson = `
        INSERT INTO directory_people (email, name, normalized_name, surname, given_names, company, source, team_id, team_emails)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (email) DO NOTHING`
	const insertCompany = `
        INSERT INTO directory_companies (name) VALUES ($1)
        ON CONFLICT (name) DO NOTHING`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, p := range dir.People() {
		teamEmails := p.TeamEmails
		if teamEmails == nil {
			teamEmails = []string{}
		}
		batch.Queue(insertPerson,
			p.Email,
			p.Name,
			p.NormalizedName,
			p.Surname,
			p.GivenNames,
			p.Company,
			p.Source,
			p.TeamID,
			teamEmails,
		)
	}
	for _, c := range dir.Companies() {
		batch.Queue(insertCompany, c)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := results.Exec(); execErr != nil {
			_ = results.Close()
			return fmt.Errorf("save directory entry %d: %w", i, execErr)
		}
	}
	if err = results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
