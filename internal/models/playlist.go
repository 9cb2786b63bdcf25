package models

// Playlist item types.
const (
	PlaylistTypeShow    = "show"
	PlaylistTypeEpisode = "episode"
)

// ValidPlaylistTypes lists the accepted Playlist.Type values.
var ValidPlaylistTypes = map[string]bool{
	PlaylistTypeShow:    true,
	PlaylistTypeEpisode: true,
}

// Playlist is an ordered, user-curated list of shows or episodes.
type Playlist struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	ItemIDs     []string `json:"item_ids"`
	CoverURL    string   `json:"cover_url"`
	DateCreated string   `json:"date_created"`
}

// CreatePlaylistRequest is the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	ItemIDs  []string `json:"item_ids"`
	CoverURL string   `json:"cover_url"`
}
