package dto

import (
	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/ingest"
)

// PersonResponse represents a directory entry.
type PersonResponse struct {
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Surname    string              `json:"surname"`
	GivenNames string              `json:"given_names"`
	Company    string              `json:"company"`
	Source     domain.PersonSource `json:"source"`
	TeamID     string              `json:"team_id,omitempty"`
	TeamEmails []string            `json:"team_emails,omitempty"`
}

// DirectoryResponse lists the whole directory.
type DirectoryResponse struct {
	People    []PersonResponse `json:"people"`
	Companies []string         `json:"companies"`
	Total     int              `json:"total"`
}

// SearchHitResponse is one ranked search result.
type SearchHitResponse struct {
	Person   PersonResponse `json:"person"`
	Distance int            `json:"distance"`
}

// ImportResponse reports a directory load batch.
type ImportResponse struct {
	Added   []PersonResponse `json:"added"`
	Pending []ingest.Pending `json:"pending"`
	Skipped int              `json:"skipped"`
	Total   int              `json:"total"`
}

// NewPersonResponse maps a record to its response shape.
func NewPersonResponse(p domain.PersonRecord) PersonResponse {
	return PersonResponse{
		Name:       p.Name,
		Email:      p.Email,
		Surname:    p.Surname,
		GivenNames: p.GivenNames,
		Company:    p.Company,
		Source:     p.Source,
		TeamID:     p.TeamID,
		TeamEmails: p.TeamEmails,
	}
}

// NewPersonResponses maps a slice of records.
func NewPersonResponses(people []domain.PersonRecord) []PersonResponse {
	out := make([]PersonResponse, 0, len(people))
	for _, p := range people {
		out = append(out, NewPersonResponse(p))
	}
	return out
}
