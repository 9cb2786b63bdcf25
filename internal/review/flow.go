// Package review holds the review draft, submits reviews and keeps the
// derived average ratings of shows and episodes up to date.
package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"showoff/internal/metrics"
	"showoff/internal/models"
	"showoff/internal/observe"
	"showoff/internal/session"
)

// Creator persists a review.
type Creator interface {
	Create(ctx context.Context, rv *models.Review) error
}

// Averager recomputes derived averages after a review lands.
type Averager interface {
	Episode(ctx context.Context, id string) (float64, error)
	Show(ctx context.Context, id string) (float64, error)
}

// Flow is one user's review draft plus its submission.
type Flow struct {
	sess     *session.Session
	reviews  Creator
	averages Averager
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	draft *observe.Value[Draft]
}

// NewFlow creates a flow with an empty draft for sess.
func NewFlow(sess *session.Session, reviews Creator, averages Averager, m *metrics.Metrics, logger *zap.Logger) *Flow {
	return &Flow{
		sess:     sess,
		reviews:  reviews,
		averages: averages,
		metrics:  m,
		logger:   logger.With(zap.String("component", "review")),
		now:      time.Now,
		draft:    observe.NewValue(Draft{}),
	}
}

// Draft returns the current draft.
func (f *Flow) Draft() Draft { return f.draft.Get() }

// Subscribe watches the draft.
func (f *Flow) Subscribe() (<-chan Draft, func()) { return f.draft.Subscribe() }

// SetRating sets the rating, clamped to [0, 5] and snapped to half points.
func (f *Flow) SetRating(r float64) {
	f.update(func(d *Draft) { d.Rating = snapRating(r) })
}

// ClickStar applies a click on star i (1-5).
func (f *Flow) ClickStar(i int) {
	if i < 1 || i > int(models.MaxRating) {
		return
	}
	f.update(func(d *Draft) { d.Rating = toggleStar(d.Rating, i) })
}

func (f *Flow) SetText(text string) {
	f.update(func(d *Draft) { d.Text = text })
}

func (f *Flow) ToggleSpoiler() {
	f.update(func(d *Draft) { d.ContainsSpoiler = !d.ContainsSpoiler })
}

// ToggleVisibility flips between public and friends-only.
func (f *Flow) ToggleVisibility() {
	f.update(func(d *Draft) { d.IsPrivate = !d.IsPrivate })
}

// Reset clears the draft.
func (f *Flow) Reset() {
	f.update(func(d *Draft) { *d = Draft{} })
}

func (f *Flow) update(fn func(*Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draft.Get()
	fn(&d)
	f.draft.Set(d)
}

// Submit posts the draft as a review of episode and recomputes the episode
// average. With no signed-in user it does nothing and returns (nil, nil).
// If the review is saved but the average cannot be updated, the saved review
// is returned together with the error.
func (f *Flow) Submit(ctx context.Context, episode *models.Episode) (*models.Review, error) {
	return f.submit(ctx, func(rv *models.Review) {
		id := episode.ID
		rv.EpisodeID = &id
		rv.Title = episode.Title
		rv.CoverURL = episode.CoverURL
	}, func(ctx context.Context) (float64, error) {
		return f.averages.Episode(ctx, episode.ID)
	})
}

// SubmitShow posts the draft as a review of a whole show.
func (f *Flow) SubmitShow(ctx context.Context, show *models.Show) (*models.Review, error) {
	return f.submit(ctx, func(rv *models.Review) {
		id := show.ID
		rv.ShowID = &id
		rv.Title = show.Title
		rv.CoverURL = show.CoverURL
	}, func(ctx context.Context) (float64, error) {
		return f.averages.Show(ctx, show.ID)
	})
}

func (f *Flow) submit(ctx context.Context, target func(*models.Review), recompute func(context.Context) (float64, error)) (*models.Review, error) {
	user := f.sess.Current()
	if user == nil {
		f.logger.Debug("review dropped, no user signed in")
		f.metrics.ReviewSubmitted("no_user")
		return nil, nil
	}

	d := f.Draft()
	rv := &models.Review{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Rating:          d.Rating,
		Comment:         d.Text,
		ContainsSpoiler: d.ContainsSpoiler,
		IsPrivate:       d.IsPrivate,
		DatePosted:      f.now().Format(models.DateLayout),
	}
	target(rv)

	if err := f.reviews.Create(ctx, rv); err != nil {
		f.metrics.ReviewSubmitted("failed")
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	f.Reset()

	avg, err := recompute(ctx)
	if err != nil {
		f.logger.Error("review saved but average not updated", zap.String("review_id", rv.ID), zap.Error(err))
		f.metrics.ReviewSubmitted("saved_stale_average")
		return rv, fmt.Errorf("failed to update average rating: %w", err)
	}

	f.logger.Info("review submitted",
		zap.String("review_id", rv.ID),
		zap.String("user_id", user.ID),
		zap.Float64("new_average", avg),
	)
	f.metrics.ReviewSubmitted("ok")
	return rv, nil
}
