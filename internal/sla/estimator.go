package sla

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	lifecycleLayout = "02.01.06 15:04"
	createdLayout   = "2006-01-02 15:04:05"
)

// createdLayouts are tried in order; spreadsheets sometimes drop the seconds or use ISO form.
var createdLayouts = []string{createdLayout, "2006-01-02T15:04:05", "2006-01-02 15:04"}

// ErrNoStartDate is returned when neither the lifecycle log nor the creation timestamp yields a date.
var ErrNoStartDate = errors.New("no start date")

// Allowance is the number of working days granted to a stage and how it was derived.
type Allowance struct {
	Days        int
	Stage       int
	Explanation string
}

// Estimator derives allowances and start dates from step and workflow text.
type Estimator struct {
	policy      Policy
	stepMarker  string
	stepPattern *regexp.Regexp
	stages      map[int][]KeywordDays
	location    *time.Location
}

// NewEstimator validates the policy and prepares the step pattern.
func NewEstimator(policy Policy) (*Estimator, error) {
	policy = policy.withDefaults()

	quoted := make([]string, 0, len(policy.StepMarkers))
	for _, m := range policy.StepMarkers {
		if m = strings.TrimSpace(m); m != "" {
			quoted = append(quoted, regexp.QuoteMeta(m))
		}
	}
	if len(quoted) == 0 {
		return nil, errors.New("sla policy: no step markers")
	}
	marker := "(?:" + strings.Join(quoted, "|") + ")"

	stages := make(map[int][]KeywordDays, len(policy.Stages))
	for _, rule := range policy.Stages {
		stages[rule.Stage] = append(stages[rule.Stage], rule.Keywords...)
	}

	return &Estimator{
		policy:      policy,
		stepMarker:  marker,
		stepPattern: regexp.MustCompile(marker + ` (\d+)`),
		stages:      stages,
		location:    time.UTC,
	}, nil
}

// WithLocation sets the time zone used to interpret timestamps.
func (e *Estimator) WithLocation(loc *time.Location) *Estimator {
	if loc != nil {
		e.location = loc
	}
	return e
}

// Location returns the time zone timestamps are parsed in.
func (e *Estimator) Location() *time.Location {
	return e.location
}

// ResolveAllowance returns the working-day allowance for a step.
func (e *Estimator) ResolveAllowance(stepText, workflowText string) Allowance {
	if e.isFinalApproval(stepText) {
		fa := e.policy.FinalApproval
		return Allowance{Days: fa.Days, Stage: fa.Stage, Explanation: "final approval stage"}
	}

	step, ok := e.stepNumber(stepText)
	if !ok {
		return Allowance{Explanation: "no stage number found"}
	}
	stage := step + 1
	fallback := e.policy.DefaultDays[stage]

	keywords, configured := e.stages[stage]
	if !configured {
		return Allowance{
			Days:        fallback,
			Stage:       stage,
			Explanation: fmt.Sprintf("Stage %d: not configured, using default %d days", stage, fallback),
		}
	}

	workflow := strings.ToLower(workflowText)
	for _, kw := range keywords {
		if kw.Keyword == "" {
			continue
		}
		if strings.Contains(workflow, strings.ToLower(kw.Keyword)) {
			return Allowance{
				Days:        kw.Days,
				Stage:       stage,
				Explanation: fmt.Sprintf("Stage %d: keyword '%s' -> %d days", stage, kw.Keyword, kw.Days),
			}
		}
	}

	return Allowance{
		Days:        fallback,
		Stage:       stage,
		Explanation: fmt.Sprintf("Stage %d: no keywords found, using default %d days", stage, fallback),
	}
}

// ResolveStartDate returns when the current step started: the last timestamp logged
// against the previous step in the lifecycle log, or the creation timestamp.
func (e *Estimator) ResolveStartDate(stepText, lifecycleLog, createdAt string) (time.Time, error) {
	if strings.TrimSpace(lifecycleLog) != "" {
		if current, ok := e.currentStep(stepText); ok {
			if start, ok := e.lifecycleStart(lifecycleLog, current); ok {
				return start, nil
			}
		}
	}

	created := strings.TrimSpace(createdAt)
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, created, e.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: creation timestamp %q", ErrNoStartDate, createdAt)
}

func (e *Estimator) isFinalApproval(stepText string) bool {
	for _, m := range e.policy.FinalApproval.Markers {
		if m != "" && strings.Contains(stepText, m) {
			return true
		}
	}
	return false
}

func (e *Estimator) stepNumber(stepText string) (int, bool) {
	m := e.stepPattern.FindStringSubmatch(stepText)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// currentStep is the step index used to locate the previous step in the lifecycle log.
func (e *Estimator) currentStep(stepText string) (int, bool) {
	if e.isFinalApproval(stepText) {
		return e.policy.FinalApproval.Stage - 1, true
	}
	return e.stepNumber(stepText)
}

func (e *Estimator) lifecycleStart(lifecycleLog string, currentStep int) (time.Time, bool) {
	target := (currentStep + 1) - 2
	if target < 0 {
		return time.Time{}, false
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`(?is)%s %d.*?(\d{2}\.\d{2}\.\d{2} \d{2}:\d{2})`, e.stepMarker, target))
	if err != nil {
		return time.Time{}, false
	}
	matches := pattern.FindAllStringSubmatch(lifecycleLog, -1)
	if len(matches) == 0 {
		return time.Time{}, false
	}

	last := matches[len(matches)-1][1]
	t, err := time.ParseInLocation(lifecycleLayout, last, e.location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
