package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/identity"
	"github.com/spec-kit/coordination-audit/internal/observability"
	"github.com/spec-kit/coordination-audit/internal/overdue"
	"github.com/spec-kit/coordination-audit/internal/sla"
	"github.com/spec-kit/coordination-audit/internal/tabular"
	apperrors "github.com/spec-kit/coordination-audit/pkg/util/errorutil"
)

// ReferenceDateLayout is the accepted reference date format.
const ReferenceDateLayout = "2006-01-02"

// AuditService runs overdue audits against the current directory.
type AuditService struct {
	directory  *DirectoryService
	aggregator *overdue.Aggregator
	columns    overdue.Columns
	location   *time.Location
	now        func() time.Time
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuditDependencies encapsulates collaborators of the audit service.
type AuditDependencies struct {
	Directory  *DirectoryService
	Policy     AuditPolicy
	Location   *time.Location
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuditService builds the estimator, calendar and matcher described by the policy.
func NewAuditService(deps AuditDependencies) (*AuditService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	estimator, err := sla.NewEstimator(deps.Policy.SLA)
	if err != nil {
		return nil, err
	}
	estimator.WithLocation(loc)

	cal, err := deps.Policy.SLA.BuildCalendar()
	if err != nil {
		return nil, fmt.Errorf("build calendar: %w", err)
	}

	matcher := identity.NewMatcher(identity.WithLogger(logger.Named("matcher")))

	return &AuditService{
		directory:  deps.Directory,
		aggregator: overdue.NewAggregator(estimator, cal, matcher, logger),
		columns:    deps.Policy.Columns.WithDefaults(),
		location:   loc,
		now:        time.Now,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}, nil
}

// ReferenceDate parses a YYYY-MM-DD date in the audit time zone. Empty text means today.
func (s *AuditService) ReferenceDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		y, m, d := s.now().In(s.location).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, s.location), nil
	}
	t, err := time.ParseInLocation(ReferenceDateLayout, text, s.location)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("reference_date must be YYYY-MM-DD", map[string]any{"reference_date": text})
	}
	return t, nil
}

// Run audits an uploaded coordination export.
func (s *AuditService) Run(ctx context.Context, filename string, r io.Reader, reference time.Time) (*overdue.Result, error) {
	table, err := tabular.Read(filename, r)
	if err != nil {
		return nil, uploadError(err)
	}
	for _, col := range []string{s.columns.Step, s.columns.Workflow, s.columns.NotChecked} {
		if !table.HasColumn(col) {
			return nil, apperrors.NewValidationError("required column missing", map[string]any{"column": col})
		}
	}

	res := s.aggregator.RunTable(table, s.columns, s.directory.People(), reference)

	s.metrics.RecordAudit(len(res.OverdueIDs), len(res.Unresolved))
	if len(res.Unresolved) > 0 {
		s.logger.Warn("approvers not found in directory", zap.Strings("names", res.Unresolved))
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.EventAuditCompleted, events.AuditCompletedPayload{
		Source:        filename,
		ReferenceDate: reference.Format(ReferenceDateLayout),
		Overdue:       len(res.OverdueIDs),
		Unresolved:    len(res.Unresolved),
		OverdueCounts: res.OverdueCounts,
	})
	return &res, nil
}

func uploadError(err error) error {
	if errors.Is(err, tabular.ErrUnsupportedFormat) {
		return apperrors.NewUnsupportedFormat("upload must be a .csv or .xlsx file", err)
	}
	return apperrors.NewValidationError("unreadable upload: "+err.Error(), nil)
}
