package review

import (
	"math"

	"showoff/internal/models"
)

// Draft is an in-progress review that has not been submitted yet.
type Draft struct {
	Rating          float64 `json:"rating"`
	Text            string  `json:"text"`
	ContainsSpoiler bool    `json:"contains_spoiler"`
	IsPrivate       bool    `json:"is_private"`
}

// snapRating clamps r to the rating range and rounds it to the nearest half point.
func snapRating(r float64) float64 {
	if math.IsNaN(r) {
		return models.MinRating
	}
	r = math.Max(models.MinRating, math.Min(models.MaxRating, r))
	return math.Round(r*2) / 2
}

// toggleStar is the rating after clicking star i: i, or i-0.5 when the
// rating is already i, and back to i from i-0.5.
func toggleStar(rating float64, star int) float64 {
	full := float64(star)
	switch rating {
	case full:
		return full - 0.5
	case full - 0.5:
		return full
	default:
		return full
	}
}

// roundOne rounds half up to one decimal place.
func roundOne(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// average is the mean rating of reviews rounded to one decimal, or 0 when there are none.
func average(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return roundOne(sum / float64(len(reviews)))
}
