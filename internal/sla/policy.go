// Package sla derives working-day allowances and start dates for approval steps.
package sla

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/coordination-audit/internal/calendar"
)

// KeywordDays assigns an allowance to workflows whose text contains Keyword.
type KeywordDays struct {
	Keyword string `yaml:"keyword"`
	Days    int    `yaml:"days"`
}

// StageRule lists keyword allowances for one stage. Keyword order is significant:
// the first keyword found in the workflow text wins.
type StageRule struct {
	Stage    int           `yaml:"stage"`
	Keywords []KeywordDays `yaml:"keywords"`
}

// FinalApproval describes the stage recognised by a literal marker in the step text.
type FinalApproval struct {
	Markers []string `yaml:"markers"`
	Days    int      `yaml:"days"`
	Stage   int      `yaml:"stage"`
}

// CalendarPolicy overrides the built-in holiday tables. Dates are "MM-DD".
type CalendarPolicy struct {
	Holidays        []string `yaml:"holidays"`
	WorkingHolidays []string `yaml:"working_holidays"`
}

// Policy is the full SLA configuration injected into the Estimator.
type Policy struct {
	FinalApproval FinalApproval   `yaml:"final_approval"`
	StepMarkers   []string        `yaml:"step_markers"`
	DefaultDays   map[int]int     `yaml:"default_days"`
	Stages        []StageRule     `yaml:"stages"`
	Calendar      *CalendarPolicy `yaml:"calendar"`
}

// DefaultPolicy returns the built-in configuration.
func DefaultPolicy() Policy {
	return Policy{
		FinalApproval: FinalApproval{
			Markers: []string{"Утверждение"},
			Days:    2,
			Stage:   4,
		},
		StepMarkers: []string{"Шаг", "Step"},
		DefaultDays: map[int]int{2: 3, 3: 5, 4: 2},
		Stages: []StageRule{
			{Stage: 2, Keywords: []KeywordDays{{Keyword: "раздела КР", Days: 2}}},
			{Stage: 3},
			{Stage: 4},
		},
	}
}

// ParsePolicy decodes a YAML policy. Sections left out fall back to DefaultPolicy.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode sla policy: %w", err)
	}
	return p.withDefaults(), nil
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if len(p.FinalApproval.Markers) == 0 {
		p.FinalApproval = def.FinalApproval
	}
	if len(p.StepMarkers) == 0 {
		p.StepMarkers = def.StepMarkers
	}
	if p.DefaultDays == nil {
		p.DefaultDays = def.DefaultDays
	}
	if p.Stages == nil {
		p.Stages = def.Stages
	}
	return p
}

// BuildCalendar returns the business calendar described by the policy, or the
// built-in calendar when the policy has no calendar section.
func (p Policy) BuildCalendar() (*calendar.Calendar, error) {
	if p.Calendar == nil {
		return calendar.Default(), nil
	}
	holidays, err := parseMonthDays(p.Calendar.Holidays)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	working, err := parseMonthDays(p.Calendar.WorkingHolidays)
	if err != nil {
		return nil, fmt.Errorf("working holidays: %w", err)
	}
	return calendar.New(holidays, working), nil
}

func parseMonthDays(values []string) ([]calendar.MonthDay, error) {
	out := make([]calendar.MonthDay, 0, len(values))
	for _, v := range values {
		md, err := calendar.ParseMonthDay(v)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}
