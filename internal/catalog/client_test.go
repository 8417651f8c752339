package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const saavnNested = `{
  "data": {
    "results": [
      {
        "id": "abc123",
        "name": "Tum Hi Ho &amp; <b>More</b>",
        "primaryArtists": "Arijit Singh",
        "duration": "262",
        "downloadUrl": [
          {"quality": "96kbps", "link": "http://cdn/96.mp3"},
          {"quality": "320kbps", "link": "http://cdn/320.mp3"}
        ],
        "image": [
          {"quality": "150x150", "link": "http://img/150.jpg"},
          {"quality": "500x500", "link": "http://img/500.jpg"}
        ]
      },
      {
        "id": "nourl",
        "name": "No Stream",
        "primaryArtists": "Nobody",
        "downloadUrl": []
      }
    ]
  }
}`

const saavnFlat = `{
  "results": [
    {
      "id": 777,
      "title": "Flat Shape",
      "primary_artists": "Someone",
      "duration": 100,
      "download_url": [{"quality": "160kbps", "url": "http://cdn/160.mp3"}],
      "image": [{"quality": "high", "url": "http://img/hq.jpg"}]
    }
  ]
}`

const saavnSongs = `{
  "songs": {
    "results": [
      {
        "id": "s1",
        "name": "Songs Shape",
        "artists": {"primary": [{"name": "A"}, {"name": "B"}]},
        "duration": "180",
        "downloadUrl": [{"quality": "48kbps", "link": "http://cdn/48.mp3"}]
      }
    ]
  }
}`

func newClientAgainst(saavn, jamendo *httptest.Server) *Client {
	sURL, jURL := "http://127.0.0.1:0", "http://127.0.0.1:0"
	if saavn != nil {
		sURL = saavn.URL
	}
	if jamendo != nil {
		jURL = jamendo.URL
	}
	return New(sURL, jURL, "test-client-id")
}

func TestSaavnNestedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tum hi ho", r.URL.Query().Get("query"))
		fmt.Fprint(w, saavnNested)
	}))
	defer srv.Close()

	c := newClientAgainst(srv, nil)
	tracks := c.Search(context.Background(), "tum hi ho")

	// The track without a stream URL is filtered out.
	require.Len(t, tracks, 1)
	got := tracks[0]
	require.Equal(t, "jio-abc123", got.ID)
	require.Equal(t, `Tum Hi Ho & More`, got.Title, "entities unescaped, markup stripped")
	require.Equal(t, "Arijit Singh", got.Artist)
	require.Equal(t, "http://cdn/320.mp3", got.URL, "best quality wins regardless of order")
	require.Equal(t, "http://img/500.jpg", got.CoverURL)
	require.Equal(t, 262, got.Duration, "string duration parsed")
	require.Equal(t, "jiosaavn", got.Source)
}

func TestSaavnFlatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, saavnFlat)
	}))
	defer srv.Close()

	tracks := newClientAgainst(srv, nil).Search(context.Background(), "flat")
	require.Len(t, tracks, 1)
	require.Equal(t, "jio-777", tracks[0].ID, "numeric id coerced to string")
	require.Equal(t, "Flat Shape", tracks[0].Title)
	require.Equal(t, "Someone", tracks[0].Artist)
	require.Equal(t, "http://cdn/160.mp3", tracks[0].URL, "url key accepted where link is absent")
	require.Equal(t, "http://img/hq.jpg", tracks[0].CoverURL)
}

func TestSaavnSongsShapeAndArtistList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, saavnSongs)
	}))
	defer srv.Close()

	tracks := newClientAgainst(srv, nil).Search(context.Background(), "songs")
	require.Len(t, tracks, 1)
	require.Equal(t, "A, B", tracks[0].Artist, "artist list joined")
	require.Equal(t, "http://cdn/48.mp3", tracks[0].URL, "ladder falls through to worst quality")
}

func TestJamendoFallbackWhenSaavnEmpty(t *testing.T) {
	saavn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"results":[]}}`)
	}))
	defer saavn.Close()

	jamendo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-client-id", r.URL.Query().Get("client_id"))
		require.Equal(t, "lofi", r.URL.Query().Get("namesearch"))
		fmt.Fprint(w, `{"results":[{"id":42,"name":"Chill","artist_name":"Beats",
			"audio":"http://jam/42.mp3","album_image":"http://jam/42.jpg","duration":120}]}`)
	}))
	defer jamendo.Close()

	tracks := newClientAgainst(saavn, jamendo).Search(context.Background(), "lofi")
	require.Len(t, tracks, 1)
	require.Equal(t, "jmdo-42", tracks[0].ID)
	require.Equal(t, "Chill", tracks[0].Title)
	require.Equal(t, "http://jam/42.mp3", tracks[0].URL)
	require.Equal(t, "jamendo", tracks[0].Source)
}

func TestJamendoTagSearchFallback(t *testing.T) {
	saavn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer saavn.Close()

	calls := 0
	jamendo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("namesearch") != "" {
			fmt.Fprint(w, `{"results":[]}`)
			return
		}
		require.Equal(t, "ambient", r.URL.Query().Get("tags"), "tag search lowercases the query")
		fmt.Fprint(w, `{"results":[{"id":"7","name":"Drift","artist_name":"X",
			"audiodownload":"http://jam/7.mp3","image":"http://jam/7.jpg","duration":"90"}]}`)
	}))
	defer jamendo.Close()

	tracks := newClientAgainst(saavn, jamendo).Search(context.Background(), "Ambient")
	require.Equal(t, 2, calls)
	require.Len(t, tracks, 1)
	require.Equal(t, "http://jam/7.mp3", tracks[0].URL, "audiodownload accepted when audio is absent")
	require.Equal(t, 90, tracks[0].Duration)
}

func TestBlankQueryAndProviderErrors(t *testing.T) {
	c := newClientAgainst(nil, nil) // nothing listening anywhere
	require.Empty(t, c.Search(context.Background(), "   "))
	// Both providers unreachable: empty result, no panic, no error surfaced.
	require.Empty(t, c.Search(context.Background(), "anything"))
}

func TestSaavnHTTPErrorFallsBackToJamendo(t *testing.T) {
	saavn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer saavn.Close()

	jamendo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":1,"name":"Backup","artist_name":"Y","audio":"http://jam/1.mp3"}]}`)
	}))
	defer jamendo.Close()

	tracks := newClientAgainst(saavn, jamendo).Search(context.Background(), "q")
	require.Len(t, tracks, 1)
	require.Equal(t, "jmdo-1", tracks[0].ID)
}
