package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"syncy/internal/domain"
)

const saavnTimeout = 6 * time.Second

// qualityLink is one entry of a download/image ladder. Some API
// deployments use "link", others "url".
type qualityLink struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
	URL     string `json:"url"`
}

func (q qualityLink) href() string {
	if q.Link != "" {
		return q.Link
	}
	return q.URL
}

type saavnSong struct {
	ID             flexString    `json:"id"`
	Name           flexString    `json:"name"`
	Title          flexString    `json:"title"`
	PrimaryArtists flexString    `json:"primaryArtists"`
	PrimaryArtsAlt flexString    `json:"primary_artists"`
	Artists        saavnArtists  `json:"artists"`
	Duration       flexInt       `json:"duration"`
	DownloadURL    []qualityLink `json:"downloadUrl"`
	DownloadAlt    []qualityLink `json:"download_url"`
	Image          []qualityLink `json:"image"`
}

type saavnArtists struct {
	Primary []struct {
		Name string `json:"name"`
	} `json:"primary"`
}

// saavnResponse covers all three response shapes observed in the
// wild: data.results, results, and songs.results.
type saavnResponse struct {
	Data struct {
		Results []saavnSong `json:"results"`
	} `json:"data"`
	Results []saavnSong `json:"results"`
	Songs   struct {
		Results []saavnSong `json:"results"`
	} `json:"songs"`
}

func (r saavnResponse) songs() []saavnSong {
	if len(r.Data.Results) > 0 {
		return r.Data.Results
	}
	if len(r.Results) > 0 {
		return r.Results
	}
	return r.Songs.Results
}

func (s saavnSong) title() string {
	if s.Name != "" {
		return clean(string(s.Name))
	}
	return clean(string(s.Title))
}

func (s saavnSong) artist() string {
	if s.PrimaryArtists != "" {
		return clean(string(s.PrimaryArtists))
	}
	if s.PrimaryArtsAlt != "" {
		return clean(string(s.PrimaryArtsAlt))
	}
	if len(s.Artists.Primary) > 0 {
		names := make([]string, 0, len(s.Artists.Primary))
		for _, a := range s.Artists.Primary {
			names = append(names, a.Name)
		}
		return clean(strings.Join(names, ", "))
	}
	return "Unknown"
}

func (s saavnSong) downloads() []qualityLink {
	if len(s.DownloadURL) > 0 {
		return s.DownloadURL
	}
	return s.DownloadAlt
}

// bestURL walks the quality ladder from best to worst and falls back
// to the last entry.
func bestURL(urls []qualityLink) string {
	if len(urls) == 0 {
		return ""
	}
	for _, q := range []string{"320kbps", "160kbps", "96kbps", "48kbps"} {
		for _, u := range urls {
			if u.Quality == q && u.href() != "" {
				return u.href()
			}
		}
	}
	return urls[len(urls)-1].href()
}

func bestImg(imgs []qualityLink) string {
	if len(imgs) == 0 {
		return ""
	}
	for _, i := range imgs {
		if (i.Quality == "500x500" || i.Quality == "high") && i.href() != "" {
			return i.href()
		}
	}
	return imgs[len(imgs)-1].href()
}

func (c *Client) searchSaavn(ctx context.Context, query string) ([]domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, saavnTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/search/songs?query=%s&page=1&limit=20", c.saavnBase, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jiosaavn: HTTP %d", resp.StatusCode)
	}

	var body saavnResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("jiosaavn: decode: %w", err)
	}

	var out []domain.Track
	for _, s := range body.songs() {
		t := domain.Track{
			ID:       "jio-" + string(s.ID),
			Title:    s.title(),
			Artist:   s.artist(),
			URL:      bestURL(s.downloads()),
			CoverURL: bestImg(s.Image),
			Duration: int(s.Duration),
			Source:   "jiosaavn",
		}
		if t.URL == "" || t.Title == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
