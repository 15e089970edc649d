package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

const (
	spotifyAPIURL   = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// spotifyEpisodeLimit caps how many episode names a normalized podcast keeps.
	spotifyEpisodeLimit = 10
	spotifyMarket       = "US"
)

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
	Limiter      *rate.Limiter
	Redis        *redis.Client
	Logger       *log.Logger
}

// SpotifyClient searches and fetches albums and podcasts from the Spotify Web
// API using a client-credentials token.
type SpotifyClient struct {
	apiClient
	baseURL string
	tokens  *TokenCache
}

func NewSpotifyClient(cfg SpotifyConfig) *SpotifyClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = spotifyAPIURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	c := &SpotifyClient{
		apiClient: newAPIClient(cfg.HTTPClient, cfg.Limiter, cfg.Redis, cfg.Logger),
		baseURL:   cfg.BaseURL,
	}
	c.tokens = NewTokenCache("spotify", func(ctx context.Context) (string, time.Duration, error) {
		form := url.Values{}
		form.Set("grant_type", "client_credentials")

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return "", 0, err
		}
		req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var body tokenResponse
		if err := c.doJSON(ctx, req, &body); err != nil {
			return "", 0, err
		}
		return body.AccessToken, time.Duration(body.ExpiresIn) * time.Second, nil
	}, cfg.Redis, cfg.Logger)
	return c
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifySearch struct {
	Albums struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"albums"`
	Shows struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"shows"`
}

type spotifyAlbum struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Images      []spotifyImage `json:"images"`
	ReleaseDate string         `json:"release_date"`
	Tracks      struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	} `json:"tracks"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type spotifyShow struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Publisher    string            `json:"publisher"`
	Images       []spotifyImage    `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type spotifyEpisodes struct {
	Items []struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
	} `json:"items"`
}

func (c *SpotifyClient) get(ctx context.Context, path string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.doJSON(ctx, req, out)
}

func (c *SpotifyClient) search(ctx context.Context, query, kind string) (*spotifySearch, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("limit", "10")

	var res spotifySearch
	if err := c.get(ctx, "/search?"+params.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchAlbums returns normalized albums matching the query.
func (c *SpotifyClient) SearchAlbums(ctx context.Context, query string) ([]*media.Album, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "spotify:search:album:" + query
	var cached []*media.Album
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	res, err := c.search(ctx, query, "album")
	if err != nil {
		return nil, err
	}

	albums := make([]*media.Album, 0, len(res.Albums.Items))
	for _, item := range res.Albums.Items {
		album, err := c.AlbumByID(ctx, item.ID)
		if err != nil {
			c.logger.Warnf("Skipping album %s: %v", item.ID, err)
			continue
		}
		albums = append(albums, album)
	}

	c.storeCache(ctx, cacheKey, albums, searchCacheTTL)
	return albums, nil
}

// AlbumByID fetches and normalizes one album.
func (c *SpotifyClient) AlbumByID(ctx context.Context, id string) (*media.Album, error) {
	key := "spotify:album:" + id
	var cached media.Album
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var details spotifyAlbum
	if err := c.get(ctx, "/albums/"+id, &details); err != nil {
		return nil, err
	}

	artists := make([]string, 0, len(details.Artists))
	for _, a := range details.Artists {
		artists = append(artists, a.Name)
	}
	tracks := make([]string, 0, len(details.Tracks.Items))
	for _, t := range details.Tracks.Items {
		tracks = append(tracks, t.Name)
	}

	album := &media.Album{
		ID:          details.ID,
		Title:       details.Name,
		Artist:      strings.Join(artists, ", "),
		Label:       details.Label,
		CoverArt:    firstImage(details.Images),
		ReleaseDate: details.ReleaseDate,
		Tracks:      tracks,
		SourceURL:   details.ExternalURLs["spotify"],
	}
	c.storeCache(ctx, key, album, detailsCacheTTL)
	return album, nil
}

// SearchPodcasts returns normalized podcasts matching the query.
func (c *SpotifyClient) SearchPodcasts(ctx context.Context, query string) ([]*media.Podcast, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "spotify:search:show:" + query
	var cached []*media.Podcast
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	res, err := c.search(ctx, query, "show")
	if err != nil {
		return nil, err
	}

	podcasts := make([]*media.Podcast, 0, len(res.Shows.Items))
	for _, item := range res.Shows.Items {
		podcast, err := c.PodcastByID(ctx, item.ID)
		if err != nil {
			c.logger.Warnf("Skipping podcast %s: %v", item.ID, err)
			continue
		}
		podcasts = append(podcasts, podcast)
	}

	c.storeCache(ctx, cacheKey, podcasts, searchCacheTTL)
	return podcasts, nil
}

// PodcastByID fetches and normalizes one podcast, including its latest episodes.
func (c *SpotifyClient) PodcastByID(ctx context.Context, id string) (*media.Podcast, error) {
	key := "spotify:show:" + id
	var cached media.Podcast
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var details spotifyShow
	if err := c.get(ctx, fmt.Sprintf("/shows/%s?market=%s", id, spotifyMarket), &details); err != nil {
		return nil, err
	}
	var episodes spotifyEpisodes
	if err := c.get(ctx, fmt.Sprintf("/shows/%s/episodes?limit=%d&market=%s", id, spotifyEpisodeLimit, spotifyMarket), &episodes); err != nil {
		return nil, err
	}

	var latest string
	names := make([]string, 0, len(episodes.Items))
	for i, ep := range episodes.Items {
		if i == 0 {
			latest = ep.ReleaseDate
		}
		name := ep.Name
		if name == "" {
			name = "Unknown Episode"
		}
		names = append(names, name)
	}

	podcast := &media.Podcast{
		ID:                details.ID,
		Title:             details.Name,
		Description:       details.Description,
		CoverArt:          firstImage(details.Images),
		Publisher:         details.Publisher,
		LatestEpisodeDate: latest,
		Episodes:          names,
		SourceURL:         details.ExternalURLs["spotify"],
	}
	c.storeCache(ctx, key, podcast, detailsCacheTTL)
	return podcast, nil
}

func firstImage(images []spotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
