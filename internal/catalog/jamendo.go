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

const jamendoTimeout = 8 * time.Second

type jamendoTrack struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	ArtistName    string     `json:"artist_name"`
	Audio         string     `json:"audio"`
	AudioDownload string     `json:"audiodownload"`
	AlbumImage    string     `json:"album_image"`
	Image         string     `json:"image"`
	Duration      flexInt    `json:"duration"`
}

type jamendoResponse struct {
	Results []jamendoTrack `json:"results"`
}

func (c *Client) searchJamendo(ctx context.Context, query string) ([]domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, jamendoTimeout)
	defer cancel()

	results, err := c.jamendoQuery(ctx, url.Values{"namesearch": {query}})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		// name search found nothing; retry as a tag search
		results, err = c.jamendoQuery(ctx, url.Values{"tags": {strings.ToLower(query)}})
		if err != nil {
			return nil, err
		}
	}

	out := make([]domain.Track, 0, len(results))
	for _, t := range results {
		audio := t.Audio
		if audio == "" {
			audio = t.AudioDownload
		}
		cover := t.AlbumImage
		if cover == "" {
			cover = t.Image
		}
		out = append(out, domain.Track{
			ID:       "jmdo-" + string(t.ID),
			Title:    t.Name,
			Artist:   t.ArtistName,
			URL:      audio,
			CoverURL: cover,
			Duration: int(t.Duration),
			Source:   "jamendo",
		})
	}
	return out, nil
}

func (c *Client) jamendoQuery(ctx context.Context, extra url.Values) ([]jamendoTrack, error) {
	p := url.Values{
		"client_id":   {c.jamendoID},
		"format":      {"json"},
		"limit":       {"15"},
		"audioformat": {"mp31"},
	}
	for k, v := range extra {
		p[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jamendoBase+"/tracks/?"+p.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jamendo: HTTP %d", resp.StatusCode)
	}

	var body jamendoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("jamendo: decode: %w", err)
	}
	return body.Results, nil
}
