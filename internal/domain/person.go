package domain

// PersonSource records how a person's company was determined.
type PersonSource string

const (
	PersonSourceAuto   PersonSource = "auto"
	PersonSourceManual PersonSource = "manual"
)

// PersonRecord models a known approver in the directory.
type PersonRecord struct {
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	NormalizedName string       `json:"normalized_name"`
	Surname        string       `json:"surname"`
	GivenNames     string       `json:"given_names"`
	Company        string       `json:"company"`
	Source         PersonSource `json:"source"`
	TeamID         string       `json:"team_id,omitempty"`
	TeamEmails     []string     `json:"team_emails,omitempty"`
}

// InTeam reports whether the record belongs to a team with more than one member.
func (p PersonRecord) InTeam() bool {
	return p.TeamID != "" && len(p.TeamEmails) > 1
}
