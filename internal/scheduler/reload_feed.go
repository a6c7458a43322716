package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/pipeline"
)

// reloadTimeout bounds one feed reload, including a possible S3 download
const reloadTimeout = 2 * time.Minute

// ReloadFeedJob re-ingests the raw feed and swaps in a fresh snapshot
type ReloadFeedJob struct {
	service *pipeline.Service
	log     zerolog.Logger
}

// NewReloadFeedJob creates the feed reload job
func NewReloadFeedJob(service *pipeline.Service, log zerolog.Logger) *ReloadFeedJob {
	return &ReloadFeedJob{
		service: service,
		log:     log.With().Str("job", "reload_feed").Logger(),
	}
}

// Name returns the job name
func (j *ReloadFeedJob) Name() string {
	return "reload_feed"
}

// Run refreshes the pipeline snapshot
func (j *ReloadFeedJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := j.service.Refresh(ctx); err != nil {
		return err
	}

	j.log.Info().Msg("Feed reloaded")
	return nil
}
