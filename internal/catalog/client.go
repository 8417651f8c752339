// Package catalog searches external song providers: JioSaavn primary,
// Jamendo fallback. Provider failures never surface as errors; a
// search that finds nothing returns an empty slice.
package catalog

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"syncy/internal/domain"
)

type Client struct {
	http *http.Client

	saavnBase   string
	jamendoBase string
	jamendoID   string
}

func New(saavnBase, jamendoBase, jamendoID string) *Client {
	return &Client{
		http:        &http.Client{},
		saavnBase:   strings.TrimRight(saavnBase, "/"),
		jamendoBase: strings.TrimRight(jamendoBase, "/"),
		jamendoID:   jamendoID,
	}
}

// Search returns JioSaavn results when there are any, otherwise falls
// back to Jamendo. A blank query is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query string) []domain.Track {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	tracks, err := c.searchSaavn(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("module", "catalog").Msg("jiosaavn search failed")
	}
	if len(tracks) > 0 {
		return tracks
	}
	tracks, err = c.searchJamendo(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("module", "catalog").Msg("jamendo search failed")
		return nil
	}
	return tracks
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer("&amp;", "&", "&quot;", `"`, "&#039;", "'")

// clean unescapes the HTML entities providers leave in titles and
// strips any markup.
func clean(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(entityReplacer.Replace(s), ""))
}
