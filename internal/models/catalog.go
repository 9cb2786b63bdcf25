package models

// Show represents a TV show in the catalog.
type Show struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Creator     string   `json:"creator"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url"`
	Genres      []string `json:"genres"`
	AvgRating   float64  `json:"avg_rating"`
	AirDate     string   `json:"air_date"`
	Version     int64    `json:"-"`
}

// Episode represents one episode of a show.
type Episode struct {
	ID              string  `json:"id"`
	ShowName        string  `json:"show_name"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	AvgRating       float64 `json:"avg_rating"`
	Season          int     `json:"season"`
	EpisodeNumber   int     `json:"episode_number"`
	CoverURL        string  `json:"cover_url"`
	Version         int64   `json:"-"`
}

// DateLayout is the layout of every date stored on a record.
const DateLayout = "2006-01-02"
