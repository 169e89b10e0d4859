package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

type OfferSweepJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository offerSweepRepo
}

type offerSweepRepo interface {
	DeactivateSoldOutTx(ctx context.Context, tx *gorm.DB) (int64, error)
}

// NewOfferSweepJob builds the job that deactivates offers whose stock ran out.
// Checkout never touches quantities, so the sweep is the only place offers
// zeroed by their vendors get flipped off.
func NewOfferSweepJob(params OfferSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	return &offerSweepJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
	}, nil
}

type offerSweepJob struct {
	logg *logger.Logger
	db   txRunner
	repo offerSweepRepo
}

func (j *offerSweepJob) Name() string { return "offer-sweep" }

func (j *offerSweepJob) Run(ctx context.Context) error {
	var deactivated int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeactivateSoldOutTx(ctx, tx)
		if err != nil {
			return err
		}
		deactivated = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("offer sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"rows_deactivated": deactivated,
	})
	j.logg.Info(logCtx, "sold-out offer sweep complete")
	return nil
}
