package identity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

func person(name, email, teamID string, teamEmails ...string) domain.PersonRecord {
	surname, given := ExtractComponents(name)
	return domain.PersonRecord{
		Name:           name,
		Email:          email,
		NormalizedName: Normalize(name),
		Surname:        surname,
		GivenNames:     given,
		TeamID:         teamID,
		TeamEmails:     teamEmails,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "accents and case", input: " Café", expected: "cafe"},
		{name: "upper case", input: "CAFE", expected: "cafe"},
		{name: "punctuation removed", input: "Smith, John!", expected: "smith john"},
		{name: "apostrophe and hyphen", input: "O'Brien-Jones", expected: "obrienjones"},
		{name: "periods kept", input: "Smith J.", expected: "smith j."},
		{name: "cyrillic diaeresis", input: "Ёлкин Пётр", expected: "елкин петр"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{" Café", "Ёлкин  Пётр ", "Smith, J.", "Łukasz Żółw", "A_b 12"}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), in)
	}
}

func TestIsInitial(t *testing.T) {
	require.True(t, IsInitial(""))
	require.True(t, IsInitial("J"))
	require.True(t, IsInitial("J."))
	require.True(t, IsInitial("И."))
	require.False(t, IsInitial("John"))
}

func TestExtractComponents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		surname string
		given   string
	}{
		{name: "comma form", input: "Smith, John", surname: "Smith", given: "John"},
		{name: "leading initial", input: "J. Smith", surname: "Smith", given: "J."},
		{name: "trailing initial", input: "Smith J.", surname: "Smith", given: "J."},
		{name: "given then surname", input: "John Smith", surname: "Smith", given: "John"},
		{name: "middle names", input: "John Paul Smith", surname: "Smith", given: "John Paul"},
		{name: "single token", input: "Smith", surname: "Smith", given: ""},
		{name: "empty", input: "", surname: "", given: ""},
		{name: "only noise", input: "123 !!", surname: "", given: ""},
		{name: "cyrillic trailing initial", input: "Иванов И.", surname: "Иванов", given: "И."},
		{name: "comma wins over initials", input: "J., Smith", surname: "J.", given: "Smith"},
		{name: "only second comma part", input: "Smith, John, Jr", surname: "Smith", given: "John"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surname, given := ExtractComponents(tt.input)
			require.Equal(t, tt.surname, surname)
			require.Equal(t, tt.given, given)
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	require.Equal(t, 100.0, TokenSetRatio("john smith", "smith john"))
	require.Equal(t, 100.0, TokenSetRatio("john smith", "john"))
	require.Equal(t, 0.0, TokenSetRatio("", "john"))
	require.InDelta(t, 85.714, TokenSetRatio("jon smith", "john smith"), 0.01)
	require.Less(t, TokenSetRatio("completely different", "john smith"), DefaultFuzzyThreshold)
}

func TestFindBestMatch_ExactPassSkipsFuzzy(t *testing.T) {
	calls := 0
	m := NewMatcher(WithScorer(func(a, b string) float64 {
		calls++
		return 0
	}))
	candidates := []domain.PersonRecord{person("John Smith", "a@acme.com", "")}

	got, ok := m.FindBestMatch("Smith J.", candidates)
	require.True(t, ok)
	require.Equal(t, "a@acme.com", got.Email)
	require.Zero(t, calls)
}

func TestFindBestMatch_GivenPrefixBothWays(t *testing.T) {
	m := NewMatcher()
	candidates := []domain.PersonRecord{person("Smith J.", "j@acme.com", "")}

	got, ok := m.FindBestMatch("John Smith", candidates)
	require.True(t, ok)
	require.Equal(t, "j@acme.com", got.Email)
}

func TestFindBestMatch_FirstExactCandidateWins(t *testing.T) {
	m := NewMatcher()
	candidates := []domain.PersonRecord{
		person("John Smith", "first@acme.com", ""),
		person("Jane Smith", "second@acme.com", ""),
	}

	got, ok := m.FindBestMatch("Smith", candidates)
	require.True(t, ok)
	require.Equal(t, "first@acme.com", got.Email)
}

func TestFindBestMatch_FuzzyThreshold(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		match bool
	}{
		{name: "exactly at threshold", score: 65, match: false},
		{name: "just above threshold", score: 66, match: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(WithScorer(func(a, b string) float64 { return tt.score }))
			candidates := []domain.PersonRecord{person("John Smith", "a@acme.com", "")}

			_, ok := m.FindBestMatch("Someone Else", candidates)
			require.Equal(t, tt.match, ok)
		})
	}
}

func TestFindBestMatch_FuzzyTieKeepsEarliest(t *testing.T) {
	m := NewMatcher(WithScorer(func(a, b string) float64 { return 80 }))
	candidates := []domain.PersonRecord{
		person("John Smith", "first@acme.com", ""),
		person("Jack Smythe", "second@acme.com", ""),
	}

	match, ok := m.Resolve("Someone Else", candidates)
	require.True(t, ok)
	require.Equal(t, "first@acme.com", match.Person.Email)
	require.Equal(t, MatchKindFuzzy, match.Kind)
}

func TestFindBestMatch_FuzzyHigherScoreWins(t *testing.T) {
	m := NewMatcher(WithScorer(func(a, b string) float64 {
		if b == "jack smythe" {
			return 90
		}
		return 70
	}))
	candidates := []domain.PersonRecord{
		person("John Smith", "first@acme.com", ""),
		person("Jack Smythe", "second@acme.com", ""),
	}

	got, ok := m.FindBestMatch("Someone Else", candidates)
	require.True(t, ok)
	require.Equal(t, "second@acme.com", got.Email)
}

func TestFindBestMatch_RealFuzzy(t *testing.T) {
	m := NewMatcher()
	candidates := []domain.PersonRecord{person("John Smith", "a@acme.com", "")}

	match, ok := m.Resolve("Jon Smith", candidates)
	require.True(t, ok)
	require.Equal(t, MatchKindFuzzy, match.Kind)

	_, ok = m.FindBestMatch("Completely Different", candidates)
	require.False(t, ok)
}

func TestIsTeamSatisfied(t *testing.T) {
	people := []domain.PersonRecord{
		person("John Smith", "john@acme.com", "team-1", "john@acme.com", "jane@acme.com"),
		person("Jane Doe", "jane@acme.com", "team-1", "john@acme.com", "jane@acme.com"),
		person("Sam Solo", "sam@acme.com", "team-2", "sam@acme.com"),
		person("Pat Loner", "pat@acme.com", ""),
	}
	m := NewMatcher()

	tests := []struct {
		name     string
		approver string
		checked  []string
		expected bool
	}{
		{name: "teammate checked", approver: "John Smith", checked: []string{"Jane Doe"}, expected: true},
		{name: "teammate checked with initial", approver: "Jane Doe", checked: []string{"Smith J."}, expected: true},
		{name: "nobody checked", approver: "John Smith", checked: nil, expected: false},
		{name: "outsider checked", approver: "John Smith", checked: []string{"Sam Solo"}, expected: false},
		{name: "team of one never satisfied", approver: "Sam Solo", checked: []string{"Sam Solo"}, expected: false},
		{name: "no team id", approver: "Pat Loner", checked: []string{"Pat Loner"}, expected: false},
		{name: "unknown approver", approver: "Nobody Known", checked: []string{"Jane Doe"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, m.IsTeamSatisfied(tt.approver, people, tt.checked))
		})
	}
}

func TestTeamMembers(t *testing.T) {
	people := []domain.PersonRecord{
		person("John Smith", "john@acme.com", "team-1", "john@acme.com", "jane@acme.com"),
		person("Sam Solo", "sam@acme.com", "team-2", "sam@acme.com"),
		person("Jane Doe", "jane@acme.com", "team-1", "john@acme.com", "jane@acme.com"),
	}

	members := TeamMembers("team-1", people)
	require.Len(t, members, 2)
	require.Equal(t, "john@acme.com", members[0].Email)
	require.Equal(t, "jane@acme.com", members[1].Email)
	require.Nil(t, TeamMembers("", people))
}
