package models

import (
	"errors"
	"fmt"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

var ErrReviewTarget = errors.New("review must target exactly one of show or episode")

// Review is a user's rating and comment on a show or an episode.
type Review struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	ShowID          *string `json:"show_id,omitempty"`
	EpisodeID       *string `json:"episode_id,omitempty"`
	Rating          float64 `json:"rating"`
	Comment         string  `json:"comment"`
	ContainsSpoiler bool    `json:"contains_spoiler"`
	IsPrivate       bool    `json:"is_private"`
	DatePosted      string  `json:"date_posted"`
	CoverURL        string  `json:"cover_url"`
	Title           string  `json:"title"`
}

// Validate checks the target exclusivity and the rating range.
func (r *Review) Validate() error {
	if (r.ShowID == nil) == (r.EpisodeID == nil) {
		return ErrReviewTarget
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("rating %.1f out of range [%.0f, %.0f]", r.Rating, MinRating, MaxRating)
	}
	return nil
}

// SubmitReviewRequest is the request body for posting a review draft.
type SubmitReviewRequest struct {
	Rating          float64 `json:"rating"`
	Comment         string  `json:"comment"`
	ContainsSpoiler bool    `json:"contains_spoiler"`
	IsPrivate       bool    `json:"is_private"`
}
