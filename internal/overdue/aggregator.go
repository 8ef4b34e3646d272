// Package overdue finds coordinations whose approval deadline has passed and
// attributes them to the companies of the approvers still holding them up.
package overdue

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/calendar"
	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/identity"
	"github.com/spec-kit/coordination-audit/internal/sla"
)

// Result is the outcome of one audit run.
type Result struct {
	OverdueCounts map[string]int         `json:"overdue_counts"`
	OverdueEmails []string               `json:"overdue_emails"`
	OverdueIDs    []string               `json:"overdue_ids"`
	Details       []domain.OverdueDetail `json:"details"`
	Unresolved    []string               `json:"unresolved"`
}

// UniqueEmails returns the resolved emails deduplicated and sorted.
func (r Result) UniqueEmails() []string {
	set := make(map[string]struct{}, len(r.OverdueEmails))
	out := make([]string, 0, len(r.OverdueEmails))
	for _, e := range r.OverdueEmails {
		if _, ok := set[e]; ok {
			continue
		}
		set[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Aggregator runs the overdue audit over a batch of coordination records.
type Aggregator struct {
	estimator *sla.Estimator
	calendar  *calendar.Calendar
	matcher   *identity.Matcher
	logger    *zap.Logger
}

// NewAggregator wires the estimator, calendar and matcher used by Run.
func NewAggregator(estimator *sla.Estimator, cal *calendar.Calendar, matcher *identity.Matcher, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{estimator: estimator, calendar: cal, matcher: matcher, logger: logger}
}

// Run audits records against the people of the directory. A record is overdue when its
// deadline falls strictly before the reference date. Records without a step or a
// parseable start date are skipped.
func (a *Aggregator) Run(records []domain.CoordinationRecord, people []domain.PersonRecord, reference time.Time) Result {
	res := Result{OverdueCounts: make(map[string]int)}

	for _, rec := range records {
		if strings.TrimSpace(rec.StepText) == "" {
			continue
		}

		allowance := a.estimator.ResolveAllowance(rec.StepText, rec.WorkflowText)
		start, err := a.estimator.ResolveStartDate(rec.StepText, rec.LifecycleLog, rec.CreatedAt)
		if err != nil {
			a.logger.Debug("coordination skipped", zap.String("id", rec.ID), zap.Error(err))
			continue
		}

		deadline := a.calendar.AddWorkingDays(start, allowance.Days)
		if !dayBefore(deadline, reference) {
			continue
		}

		notChecked := SplitNames(rec.NotCheckedApprovers)
		checked := SplitNames(rec.CheckedApprovers)

		var (
			emails    []string
			companies []string
		)
		touched := make(map[string]struct{})
		for _, approver := range notChecked {
			if a.matcher.IsTeamSatisfied(approver, people, checked) {
				a.logger.Debug("approver covered by teammate", zap.String("id", rec.ID), zap.String("approver", approver))
				continue
			}
			person, ok := a.matcher.FindBestMatch(approver, people)
			if !ok {
				res.Unresolved = append(res.Unresolved, approver)
				continue
			}
			emails = append(emails, person.Email)
			if _, seen := touched[person.Company]; !seen {
				touched[person.Company] = struct{}{}
				companies = append(companies, person.Company)
			}
		}

		for _, c := range companies {
			res.OverdueCounts[c]++
		}
		res.OverdueEmails = append(res.OverdueEmails, emails...)
		res.OverdueIDs = append(res.OverdueIDs, rec.ID)
		res.Details = append(res.Details, domain.OverdueDetail{
			ID:              rec.ID,
			Companies:       companies,
			StartDate:       calendar.DateOnly(start),
			Deadline:        calendar.DateOnly(deadline),
			WorkingDays:     allowance.Days,
			NotCheckedCount: len(notChecked),
			Explanation:     allowance.Explanation,
			Emails:          emails,
		})
	}

	a.logger.Info("audit run finished",
		zap.Int("records", len(records)),
		zap.Int("overdue", len(res.OverdueIDs)),
		zap.Int("unresolved", len(res.Unresolved)),
	)
	return res
}

// SplitNames splits a comma-separated approver list, dropping blanks.
func SplitNames(text string) []string {
	var names []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// dayBefore compares calendar dates, ignoring time of day and location.
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Before(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
