package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/ingest"
)

// Service owns the current snapshot. Refresh loads the feed, runs the
// pipeline and swaps the snapshot atomically; readers always see either the
// previous complete snapshot or the new one, never a partial state.
type Service struct {
	loader   *ingest.Loader
	pipeline *Pipeline
	source   string
	log      zerolog.Logger

	mu      sync.RWMutex
	current *Snapshot
}

// NewService creates a snapshot service for the given feed source
func NewService(loader *ingest.Loader, p *Pipeline, source string, log zerolog.Logger) *Service {
	return &Service{
		loader:   loader,
		pipeline: p,
		source:   source,
		log:      log.With().Str("service", "pipeline").Logger(),
	}
}

// Refresh re-ingests the feed and rebuilds the snapshot
func (s *Service) Refresh(ctx context.Context) error {
	raw, records, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return fmt.Errorf("failed to refresh snapshot: %w", err)
	}

	snap := s.pipeline.Build(raw, records)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	return nil
}

// Current returns the active snapshot, or nil before the first refresh
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
