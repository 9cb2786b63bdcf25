package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"showoff/internal/metrics"
	"showoff/internal/models"
	"showoff/internal/repository"
)

// maxRecomputeAttempts bounds how often a lost compare-and-swap is redone.
const maxRecomputeAttempts = 5

// RatingStore reads catalog versions and writes averages conditionally.
type RatingStore interface {
	GetEpisode(ctx context.Context, id string) (*models.Episode, error)
	GetShow(ctx context.Context, id string) (*models.Show, error)
	SetEpisodeRating(ctx context.Context, id string, avg float64, version int64) error
	SetShowRating(ctx context.Context, id string, avg float64, version int64) error
}

// ReviewLister lists the reviews of a target.
type ReviewLister interface {
	ListByEpisode(ctx context.Context, episodeID string) ([]models.Review, error)
	ListByShow(ctx context.Context, showID string) ([]models.Review, error)
}

// Recomputer rewrites the average rating of a show or episode from its reviews.
// The write only lands if the record's version is unchanged since it was
// read; otherwise the read-compute-write runs again on fresh data.
type Recomputer struct {
	ratings RatingStore
	reviews ReviewLister
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRecomputer creates a Recomputer.
func NewRecomputer(ratings RatingStore, reviews ReviewLister, m *metrics.Metrics, logger *zap.Logger) *Recomputer {
	return &Recomputer{
		ratings: ratings,
		reviews: reviews,
		metrics: m,
		logger:  logger.With(zap.String("component", "recompute")),
	}
}

// Episode recomputes an episode's average and returns the value written.
func (r *Recomputer) Episode(ctx context.Context, id string) (float64, error) {
	return r.run(ctx, "episode", id,
		func(ctx context.Context) (int64, error) {
			e, err := r.ratings.GetEpisode(ctx, id)
			if err != nil {
				return 0, err
			}
			return e.Version, nil
		},
		func(ctx context.Context) ([]models.Review, error) { return r.reviews.ListByEpisode(ctx, id) },
		func(ctx context.Context, avg float64, v int64) error { return r.ratings.SetEpisodeRating(ctx, id, avg, v) },
	)
}

// Show recomputes a show's average from its show-targeted reviews.
func (r *Recomputer) Show(ctx context.Context, id string) (float64, error) {
	return r.run(ctx, "show", id,
		func(ctx context.Context) (int64, error) {
			s, err := r.ratings.GetShow(ctx, id)
			if err != nil {
				return 0, err
			}
			return s.Version, nil
		},
		func(ctx context.Context) ([]models.Review, error) { return r.reviews.ListByShow(ctx, id) },
		func(ctx context.Context, avg float64, v int64) error { return r.ratings.SetShowRating(ctx, id, avg, v) },
	)
}

func (r *Recomputer) run(
	ctx context.Context,
	kind, id string,
	version func(context.Context) (int64, error),
	list func(context.Context) ([]models.Review, error),
	write func(context.Context, float64, int64) error,
) (float64, error) {
	for attempt := 1; attempt <= maxRecomputeAttempts; attempt++ {
		// Version first: any average written after this read fails our write.
		v, err := version(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s %s: %w", kind, id, err)
		}
		reviews, err := list(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list reviews for %s %s: %w", kind, id, err)
		}

		avg := average(reviews)
		err = write(ctx, avg, v)
		if err == nil {
			r.logger.Debug("average updated",
				zap.String("kind", kind), zap.String("id", id),
				zap.Float64("avg", avg), zap.Int("reviews", len(reviews)),
			)
			return avg, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return 0, fmt.Errorf("failed to write %s %s average: %w", kind, id, err)
		}

		r.metrics.RatingConflict()
		r.logger.Info("average write lost a version race",
			zap.String("kind", kind), zap.String("id", id), zap.Int("attempt", attempt))
	}
	return 0, fmt.Errorf("%s %s average: %w after %d attempts", kind, id, repository.ErrVersionConflict, maxRecomputeAttempts)
}
