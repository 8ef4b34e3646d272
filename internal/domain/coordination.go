package domain

import "time"

// CoordinationRecord is one row of the workflow log under audit.
type CoordinationRecord struct {
	ID                  string
	StepText            string
	WorkflowText        string
	LifecycleLog        string
	CreatedAt           string
	CheckedApprovers    string
	NotCheckedApprovers string
}

// OverdueDetail describes one coordination whose deadline has passed.
type OverdueDetail struct {
	ID              string    `json:"id"`
	Companies       []string  `json:"companies"`
	StartDate       time.Time `json:"start_date"`
	Deadline        time.Time `json:"deadline"`
	WorkingDays     int       `json:"working_days"`
	NotCheckedCount int       `json:"not_checked_count"`
	Explanation     string    `json:"explanation"`
	Emails          []string  `json:"emails"`
}
