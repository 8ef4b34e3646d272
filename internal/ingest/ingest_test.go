package ingest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/identity"
)

func sequentialTeamIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("team-%d", n)
	}
}

func TestJoinLines(t *testing.T) {
	cells := []string{
		"Project A (John Smith john@acme.com /",
		"Jane Doe jane@acme.com)",
		"",
		"Other line\nLast line",
	}
	require.Equal(t, []string{
		"Project A (John Smith john@acme.com / Jane Doe jane@acme.com)",
		"Other line",
		"Last line",
	}, JoinLines(cells))
}

func TestParseBlocks(t *testing.T) {
	lines := []string{
		"Design review (John Smith john@acme.com / Jane Doe jane@acme.com)",
		"Estimates - Иван Петров ivan@globex.ru.",
		"No contacts here (just text)",
	}

	blocks := ParseBlocks(lines)
	require.Len(t, blocks, 2)

	require.Equal(t, []Entry{
		{Name: "John Smith", Email: "john@acme.com"},
		{Name: "Jane Doe", Email: "jane@acme.com"},
	}, blocks[0].Members)
	require.Equal(t, lines[0], blocks[0].Line)

	require.Equal(t, []Entry{{Name: "Иван Петров", Email: "ivan@globex.ru"}}, blocks[1].Members)
}

func TestIsPublicMailbox(t *testing.T) {
	require.True(t, IsPublicMailbox("someone@gmail.com"))
	require.True(t, IsPublicMailbox("someone@Yandex.ru"))
	require.False(t, IsPublicMailbox("someone@acme.com"))
	require.Equal(t, "acme.com", CompanyFromEmail("Someone@ACME.com"))
}

func TestAdmit(t *testing.T) {
	dir := domain.NewDirectory([]domain.PersonRecord{{Name: "Old Timer", Email: "old@acme.com", Company: "acme.com"}}, nil)
	blocks := ParseBlocks([]string{
		"(John Smith john@acme.com / Old Timer old@acme.com / Kate Free kate@gmail.com / Max Home max@mail.ru)",
		"(Solo Person solo@globex.com)",
		"(John Smith john@acme.com)",
	})
	a := &Admitter{NewTeamID: sequentialTeamIDs()}

	res := a.Admit(dir, blocks, map[string]string{"kate@gmail.com": "Initech", "max@mail.ru": "X"})

	require.Equal(t, 2, res.Skipped)
	require.Len(t, res.Added, 3)
	require.Len(t, res.Pending, 1)
	require.Equal(t, "max@mail.ru", res.Pending[0].Email)

	john, ok := dir.Get("john@acme.com")
	require.True(t, ok)
	require.Equal(t, "acme.com", john.Company)
	require.Equal(t, domain.PersonSourceAuto, john.Source)
	require.Equal(t, "team-1", john.TeamID)
	require.Equal(t, []string{"john@acme.com", "kate@gmail.com", "max@mail.ru"}, john.TeamEmails)
	require.Equal(t, "Smith", john.Surname)
	require.Equal(t, "John", john.GivenNames)
	require.Equal(t, "john smith", john.NormalizedName)

	kate, ok := dir.Get("kate@gmail.com")
	require.True(t, ok)
	require.Equal(t, "Initech", kate.Company)
	require.Equal(t, domain.PersonSourceManual, kate.Source)
	require.Equal(t, "team-1", kate.TeamID)

	solo, ok := dir.Get("solo@globex.com")
	require.True(t, ok)
	require.Equal(t, "team-2", solo.TeamID)
	require.False(t, solo.InTeam())

	require.False(t, dir.Has("max@mail.ru"))
	require.Equal(t, []string{"Initech", "acme.com", "globex.com"}, dir.Companies())
}

func TestAdmit_LaterAssignmentJoinsExistingTeam(t *testing.T) {
	dir := domain.NewDirectory(nil, nil)
	blocks := ParseBlocks([]string{"Смета (John Smith john@acme.com / Пётр Иванов petr@gmail.com)"})
	a := &Admitter{NewTeamID: sequentialTeamIDs()}

	first := a.Admit(dir, blocks, nil)
	require.Len(t, first.Added, 1)
	require.Len(t, first.Pending, 1)
	require.Equal(t, "team-1", first.Pending[0].TeamID)

	second := a.Admit(dir, blocks, map[string]string{"petr@gmail.com": "Globex"})
	require.Equal(t, 1, second.Skipped)
	require.Len(t, second.Added, 1)

	john, ok := dir.Get("john@acme.com")
	require.True(t, ok)
	petr, ok := dir.Get("petr@gmail.com")
	require.True(t, ok)
	require.Equal(t, "team-1", petr.TeamID)
	require.Equal(t, john.TeamID, petr.TeamID)
	require.Equal(t, []string{"john@acme.com", "petr@gmail.com"}, petr.TeamEmails)
	require.True(t, petr.InTeam())

	m := identity.NewMatcher()
	people := dir.People()
	require.True(t, m.IsTeamSatisfied("Пётр Иванов", people, []string{"John Smith"}))
	require.True(t, m.IsTeamSatisfied("John Smith", people, []string{"Пётр Иванов"}))
}

func TestAdmit_TeamlessExistingMemberStartsNewTeam(t *testing.T) {
	dir := domain.NewDirectory([]domain.PersonRecord{{Name: "Old Timer", Email: "old@acme.com", Company: "acme.com"}}, nil)
	blocks := ParseBlocks([]string{"(Old Timer old@acme.com / New Hire new@acme.com)"})

	res := (&Admitter{NewTeamID: sequentialTeamIDs()}).Admit(dir, blocks, nil)
	require.Len(t, res.Added, 1)
	require.Equal(t, "team-1", res.Added[0].TeamID)
	require.Equal(t, []string{"new@acme.com"}, res.Added[0].TeamEmails)
}
