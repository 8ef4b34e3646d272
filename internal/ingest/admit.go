package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/identity"
)

// publicMailProviders are mailbox hosts that say nothing about the employer.
var publicMailProviders = map[string]struct{}{
	"mail":    {},
	"yandex":  {},
	"gmail":   {},
	"yahoo":   {},
	"hotmail": {},
	"outlook": {},
}

// minCompanyLen is the shortest accepted manual company name.
const minCompanyLen = 2

// Pending is a person whose company must be assigned by an operator.
type Pending struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Line       string   `json:"line"`
	TeamID     string   `json:"team_id"`
	TeamEmails []string `json:"team_emails"`
}

// Result summarises one admission pass.
type Result struct {
	Added   []domain.PersonRecord
	Pending []Pending
	Skipped int
}

// Admitter adds parsed blocks to a directory.
type Admitter struct {
	NewTeamID func() string
}

// NewAdmitter returns an admitter generating UUID team ids.
func NewAdmitter() *Admitter {
	return &Admitter{NewTeamID: uuid.NewString}
}

// CompanyFromEmail returns the lower-cased domain part of an email.
func CompanyFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsPublicMailbox reports whether the email is hosted by a public mail provider.
func IsPublicMailbox(email string) bool {
	domainName := CompanyFromEmail(email)
	label, _, _ := strings.Cut(domainName, ".")
	_, ok := publicMailProviders[label]
	return ok
}

// Admit adds every new person of blocks to dir. Emails already in dir are skipped,
// but their team carries over to the block's new members. People on public
// mailboxes are admitted only when assignments names their company; otherwise they
// are reported as pending.
func (a *Admitter) Admit(dir *domain.Directory, blocks []Block, assignments map[string]string) Result {
	var res Result
	seen := make(map[string]struct{})

	for _, block := range blocks {
		var fresh []Entry
		for _, m := range block.Members {
			if _, dup := seen[m.Email]; dup || dir.Has(m.Email) {
				res.Skipped++
				continue
			}
			seen[m.Email] = struct{}{}
			fresh = append(fresh, m)
		}
		if len(fresh) == 0 {
			continue
		}

		teamID, teamEmails := a.team(dir, block, fresh)

		for _, m := range fresh {
			record := newRecord(m, teamID, teamEmails)
			if IsPublicMailbox(m.Email) {
				company := strings.TrimSpace(assignments[m.Email])
				if utf8.RuneCountInString(company) < minCompanyLen {
					res.Pending = append(res.Pending, Pending{
						Name:       m.Name,
						Email:      m.Email,
						Line:       block.Line,
						TeamID:     teamID,
						TeamEmails: record.TeamEmails,
					})
					continue
				}
				record.Company = company
				record.Source = domain.PersonSourceManual
			} else {
				record.Company = CompanyFromEmail(m.Email)
				record.Source = domain.PersonSourceAuto
			}
			if dir.Add(record) {
				res.Added = append(res.Added, record)
			}
		}
	}
	return res
}

// team returns the team fresh members join. When another member of the block is
// already in dir with a team, that team is reused and fresh emails are appended to
// its list; otherwise a new team is formed from the fresh members.
func (a *Admitter) team(dir *domain.Directory, block Block, fresh []Entry) (string, []string) {
	var teamID string
	var emails []string
	for _, m := range block.Members {
		if existing, ok := dir.Get(m.Email); ok && existing.TeamID != "" {
			teamID = existing.TeamID
			emails = append(emails, existing.TeamEmails...)
			break
		}
	}
	if teamID == "" {
		teamID = a.NewTeamID()
	}

	listed := make(map[string]struct{}, len(emails)+len(fresh))
	for _, e := range emails {
		listed[e] = struct{}{}
	}
	for _, m := range fresh {
		if _, ok := listed[m.Email]; !ok {
			listed[m.Email] = struct{}{}
			emails = append(emails, m.Email)
		}
	}
	return teamID, emails
}

func newRecord(e Entry, teamID string, teamEmails []string) domain.PersonRecord {
	surname, given := identity.ExtractComponents(e.Name)
	emails := make([]string, len(teamEmails))
	copy(emails, teamEmails)
	return domain.PersonRecord{
		Name:           e.Name,
		Email:          e.Email,
		NormalizedName: identity.Normalize(e.Name),
		Surname:        surname,
		GivenNames:     given,
		TeamID:         teamID,
		TeamEmails:     emails,
	}
}
