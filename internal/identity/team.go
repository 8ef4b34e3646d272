package identity

import "github.com/spec-kit/coordination-audit/internal/domain"

// IsTeamSatisfied reports whether approver belongs to a multi-person team of which
// some member already appears among the checked names. Solo entries are never
// satisfied by someone else's check.
func (m *Matcher) IsTeamSatisfied(approver string, people []domain.PersonRecord, checked []string) bool {
	person, ok := m.FindBestMatch(approver, people)
	if !ok || !person.InTeam() {
		return false
	}

	members := TeamMembers(person.TeamID, people)
	for _, member := range members {
		single := []domain.PersonRecord{member}
		for _, name := range checked {
			if _, ok := m.FindBestMatch(name, single); ok {
				return true
			}
		}
	}
	return false
}

// TeamMembers returns every person carrying teamID, in directory order.
func TeamMembers(teamID string, people []domain.PersonRecord) []domain.PersonRecord {
	if teamID == "" {
		return nil
	}
	var members []domain.PersonRecord
	for _, p := range people {
		if p.TeamID == teamID {
			members = append(members, p)
		}
	}
	return members
}
