package identity

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

// DefaultFuzzyThreshold is the score a fuzzy candidate must strictly exceed.
const DefaultFuzzyThreshold = 65.0

// MatchKind indicates which pass produced a match.
type MatchKind string

const (
	MatchKindExact MatchKind = "exact"
	MatchKindFuzzy MatchKind = "fuzzy"
)

// Match is a resolved directory entry.
type Match struct {
	Person domain.PersonRecord
	Kind   MatchKind
	Score  float64
}

// Scorer rates the similarity of two normalized names on a 0-100 scale.
type Scorer func(a, b string) float64

// Matcher resolves free-text names to directory entries.
type Matcher struct {
	scorer    Scorer
	threshold float64
	logger    *zap.Logger
}

// Option customises a Matcher.
type Option func(*Matcher)

// WithScorer replaces the fuzzy scorer.
func WithScorer(s Scorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

// WithLogger records each comparison at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMatcher creates a matcher using TokenSetRatio for the fuzzy pass.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		scorer:    TokenSetRatio,
		threshold: DefaultFuzzyThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindBestMatch returns the directory entry that best matches target.
func (m *Matcher) FindBestMatch(target string, candidates []domain.PersonRecord) (domain.PersonRecord, bool) {
	match, ok := m.Resolve(target, candidates)
	if !ok {
		return domain.PersonRecord{}, false
	}
	return match.Person, true
}

// Resolve runs the exact pass and, if it finds nothing, the fuzzy pass.
//
// The exact pass requires equal normalized surnames and given names where one is a
// prefix of the other once initials lose their periods, so "Smith J." finds
// "Smith John". The first such candidate in input order wins. The fuzzy pass keeps
// the earliest candidate with the highest score strictly above the threshold.
func (m *Matcher) Resolve(target string, candidates []domain.PersonRecord) (Match, bool) {
	if match, ok := m.exact(target, candidates); ok {
		return match, true
	}
	return m.fuzzy(target, candidates)
}

func (m *Matcher) exact(target string, candidates []domain.PersonRecord) (Match, bool) {
	surname, given := ExtractComponents(target)
	wantSurname := Normalize(surname)
	wantGiven := givenKey(given)

	for _, c := range candidates {
		if wantSurname != Normalize(c.Surname) {
			continue
		}
		have := givenKey(c.GivenNames)
		if strings.HasPrefix(have, wantGiven) || strings.HasPrefix(wantGiven, have) {
			m.logger.Debug("exact name match",
				zap.String("target", target),
				zap.String("email", c.Email))
			return Match{Person: c, Kind: MatchKindExact, Score: 100}, true
		}
	}
	return Match{}, false
}

// givenKey drops the periods of initials so that "J." is a prefix of "John".
func givenKey(given string) string {
	return strings.ReplaceAll(Normalize(given), ".", "")
}

func (m *Matcher) fuzzy(target string, candidates []domain.PersonRecord) (Match, bool) {
	normalized := Normalize(target)
	var (
		best  Match
		found bool
	)
	for _, c := range candidates {
		score := m.scorer(normalized, c.NormalizedName)
		m.logger.Debug("fuzzy name comparison",
			zap.String("target", target),
			zap.String("candidate", c.NormalizedName),
			zap.Float64("score", score))
		if score > m.threshold && score > best.Score {
			best = Match{Person: c, Kind: MatchKindFuzzy, Score: score}
			found = true
		}
	}
	return best, found
}
