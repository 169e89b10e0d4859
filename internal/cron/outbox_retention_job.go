package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

const (
	defaultRetentionDays  = 30
	defaultTerminalMinAge = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount int) (int64, error)
}

// OutboxRetentionJobParams configure the outbox cleanup job. Zero values for
// Retention and MinAttempts fall back to the defaults.
type OutboxRetentionJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Repository  outboxRetentionRepo
	Retention   int
	MinAttempts int
}

type outboxRetentionJob struct {
	logg          *logger.Logger
	db            txRunner
	repo          outboxRetentionRepo
	retentionDays int
	minAttempts   int
	now           func() time.Time
}

// NewOutboxRetentionJob builds the job that purges published outbox rows older
// than the retention window, plus unpublished rows stuck at the attempt
// ceiling (those already live in the DLQ).
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	job := &outboxRetentionJob{
		logg:          params.Logger,
		db:            params.DB,
		repo:          params.Repository,
		retentionDays: params.Retention,
		minAttempts:   params.MinAttempts,
		now:           time.Now,
	}
	if job.retentionDays <= 0 {
		job.retentionDays = defaultRetentionDays
	}
	if job.minAttempts <= 0 {
		job.minAttempts = defaultTerminalMinAge
	}
	return job, nil
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retentionDays)

	var purged int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeletePublishedBefore(ctx, tx, cutoff, j.minAttempts)
		if err != nil {
			return err
		}
		purged = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("outbox retention: %w", err)
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retentionDays,
		"min_attempts":   j.minAttempts,
		"rows_purged":    purged,
	}), "outbox retention sweep done")
	return nil
}
