package dto

import (
	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/overdue"
)

// Audit output formats.
const (
	AuditFormatJSON   = "json"
	AuditFormatXLSX   = "xlsx"
	AuditFormatEmails = "emails"
)

// CompanyCount is one row of the per-company summary, largest first.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// OverdueDetailResponse is one overdue coordination.
type OverdueDetailResponse struct {
	ID              string   `json:"id"`
	Companies       []string `json:"companies"`
	StartDate       string   `json:"start_date"`
	Deadline        string   `json:"deadline"`
	WorkingDays     int      `json:"working_days"`
	NotCheckedCount int      `json:"not_checked_count"`
	Explanation     string   `json:"explanation"`
	Emails          []string `json:"emails"`
}

// AuditResponse is the JSON form of an audit run.
type AuditResponse struct {
	ReferenceDate string                  `json:"reference_date"`
	TotalOverdue  int                     `json:"total_overdue"`
	OverdueCounts []CompanyCount          `json:"overdue_counts"`
	OverdueIDs    []string                `json:"overdue_ids"`
	UniqueEmails  []string                `json:"unique_emails"`
	Details       []OverdueDetailResponse `json:"details"`
	Unresolved    []string                `json:"unresolved"`
}

const dateLayout = "2006-01-02"

// NewAuditResponse maps an audit result.
func NewAuditResponse(referenceDate string, res *overdue.Result) AuditResponse {
	resp := AuditResponse{
		ReferenceDate: referenceDate,
		TotalOverdue:  len(res.OverdueIDs),
		OverdueCounts: SortedCounts(res.OverdueCounts),
		OverdueIDs:    nonNil(res.OverdueIDs),
		UniqueEmails:  res.UniqueEmails(),
		Details:       make([]OverdueDetailResponse, 0, len(res.Details)),
		Unresolved:    nonNil(res.Unresolved),
	}
	for _, d := range res.Details {
		resp.Details = append(resp.Details, newOverdueDetailResponse(d))
	}
	return resp
}

func newOverdueDetailResponse(d domain.OverdueDetail) OverdueDetailResponse {
	return OverdueDetailResponse{
		ID:              d.ID,
		Companies:       nonNil(d.Companies),
		StartDate:       d.StartDate.Format(dateLayout),
		Deadline:        d.Deadline.Format(dateLayout),
		WorkingDays:     d.WorkingDays,
		NotCheckedCount: d.NotCheckedCount,
		Explanation:     d.Explanation,
		Emails:          nonNil(d.Emails),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
