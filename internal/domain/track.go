package domain

// Track is a playable descriptor as returned by catalog search.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
	CoverURL string `json:"coverUrl"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
}
