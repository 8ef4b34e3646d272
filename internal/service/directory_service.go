package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/ingest"
	"github.com/spec-kit/coordination-audit/internal/observability"
	"github.com/spec-kit/coordination-audit/internal/repository"
	"github.com/spec-kit/coordination-audit/internal/tabular"
	apperrors "github.com/spec-kit/coordination-audit/pkg/util/errorutil"
)

// DirectoryService owns the in-memory directory and its load pipeline.
// Loads are serialized; audits read a snapshot.
type DirectoryService struct {
	mu         sync.RWMutex
	dir        *domain.Directory
	repo       repository.DirectoryRepository
	admitter   *ingest.Admitter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// DirectoryDependencies encapsulates collaborators of the directory service.
type DirectoryDependencies struct {
	Repo       repository.DirectoryRepository
	Admitter   *ingest.Admitter
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// ImportResult reports one load batch.
type ImportResult struct {
	Added   []domain.PersonRecord `json:"added"`
	Pending []ingest.Pending      `json:"pending"`
	Skipped int                   `json:"skipped"`
	Total   int                   `json:"total"`
}

// SearchHit is one ranked directory search result.
type SearchHit struct {
	Person   domain.PersonRecord `json:"person"`
	Distance int                 `json:"distance"`
}

// NewDirectoryService constructs the service with an empty directory; call Init to load it.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	admitter := deps.Admitter
	if admitter == nil {
		admitter = ingest.NewAdmitter()
	}
	return &DirectoryService{
		dir:        domain.NewDirectory(nil, nil),
		repo:       deps.Repo,
		admitter:   admitter,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Init loads the stored directory. On failure the service keeps an empty directory
// and the error is returned for the caller to report.
func (s *DirectoryService) Init(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	dir, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("directory load failed; starting empty", zap.Error(err))
		return fmt.Errorf("load directory: %w", err)
	}

	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()

	s.logger.Info("directory loaded", zap.Int("people", dir.Len()), zap.Int("companies", len(dir.Companies())))
	return nil
}

// Snapshot returns an independent copy of the current directory.
func (s *DirectoryService) Snapshot() *domain.Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Clone()
}

// People returns every known person in directory order.
func (s *DirectoryService) People() []domain.PersonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.People()
}

// Import parses a company/employee listing and admits new people. The batch is staged on a
// copy and only replaces the live directory after it has been persisted.
func (s *DirectoryService) Import(ctx context.Context, filename string, r io.Reader, assignments map[string]string) (*ImportResult, error) {
	table, err := tabular.Read(filename, r)
	if err != nil {
		return nil, uploadError(err)
	}
	blocks := ingest.ParseBlocks(ingest.JoinLines(table.Cells()))

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.dir.Clone()
	admitted := s.admitter.Admit(staged, blocks, assignments)

	if len(admitted.Added) > 0 && s.repo != nil {
		if err := s.repo.Save(ctx, staged); err != nil {
			s.logger.Error("directory save failed; batch discarded", zap.Error(err), zap.Int("added", len(admitted.Added)))
			return nil, apperrors.NewInternalError(fmt.Errorf("save directory: %w", err))
		}
	}
	s.dir = staged

	result := &ImportResult{
		Added:   admitted.Added,
		Pending: admitted.Pending,
		Skipped: admitted.Skipped,
		Total:   staged.Len(),
	}
	s.logger.Info("directory import",
		zap.String("file", filename),
		zap.Int("blocks", len(blocks)),
		zap.Int("added", len(result.Added)),
		zap.Int("pending", len(result.Pending)),
		zap.Int("skipped", result.Skipped),
	)
	s.metrics.RecordDirectoryLoad(len(result.Added))
	publishEvent(ctx, s.dispatcher, s.logger, events.EventDirectoryLoaded, events.DirectoryLoadedPayload{
		Source:  filename,
		Added:   len(result.Added),
		Pending: len(result.Pending),
		Skipped: result.Skipped,
		Total:   result.Total,
	})
	return result, nil
}

// Search ranks people whose name or email contains the query letters in order.
func (s *DirectoryService) Search(query string, limit int) []SearchHit {
	people := s.People()
	targets := make([]string, len(people))
	for i, p := range people {
		targets[i] = p.Name + " " + p.Email
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Sort(ranks)

	hits := make([]SearchHit, 0, len(ranks))
	for _, rank := range ranks {
		if limit > 0 && len(hits) == limit {
			break
		}
		hits = append(hits, SearchHit{Person: people[rank.OriginalIndex], Distance: rank.Distance})
	}
	return hits
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, payload interface{}) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, events.New(eventType, payload)); err != nil {
		logger.Warn("event handlers failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
