package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

const (
	igdbAPIURL     = "https://api.igdb.com/v4"
	twitchTokenURL = "https://id.twitch.tv/oauth2/token"
	igdbCoverURL   = "https://images.igdb.com/igdb/image/upload/t_cover_big"
	igdbSiteURL    = "https://www.igdb.com/games"

	igdbGameFields = "name,summary,first_release_date,cover.image_id,genres.name,involved_companies.company.name,platforms.name,url,slug"
)

type IGDBConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
	Limiter      *rate.Limiter
	Redis        *redis.Client
	Logger       *log.Logger
}

// IGDBClient searches and fetches video games from IGDB, authenticating with a
// Twitch client-credentials token. IGDB takes Apicalypse query bodies via POST.
type IGDBClient struct {
	apiClient
	clientID string
	baseURL  string
	tokens   *TokenCache
}

func NewIGDBClient(cfg IGDBConfig) *IGDBClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = igdbAPIURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = twitchTokenURL
	}

	c := &IGDBClient{
		apiClient: newAPIClient(cfg.HTTPClient, cfg.Limiter, cfg.Redis, cfg.Logger),
		clientID:  cfg.ClientID,
		baseURL:   cfg.BaseURL,
	}
	c.tokens = NewTokenCache("igdb", func(ctx context.Context) (string, time.Duration, error) {
		params := url.Values{}
		params.Set("client_id", cfg.ClientID)
		params.Set("client_secret", cfg.ClientSecret)
		params.Set("grant_type", "client_credentials")

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL+"?"+params.Encode(), nil)
		if err != nil {
			return "", 0, err
		}

		var body tokenResponse
		if err := c.doJSON(ctx, req, &body); err != nil {
			return "", 0, err
		}
		return body.AccessToken, time.Duration(body.ExpiresIn) * time.Second, nil
	}, cfg.Redis, cfg.Logger)
	return c
}

type igdbName struct {
	Name string `json:"name"`
}

type igdbGame struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Summary          string `json:"summary"`
	FirstReleaseDate int64  `json:"first_release_date"`
	Cover            struct {
		ImageID string `json:"image_id"`
	} `json:"cover"`
	Genres            []igdbName `json:"genres"`
	InvolvedCompanies []struct {
		Company igdbName `json:"company"`
	} `json:"involved_companies"`
	Platforms []igdbName `json:"platforms"`
	URL       string     `json:"url"`
	Slug      string     `json:"slug"`
}

func (c *IGDBClient) query(ctx context.Context, body string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return c.doJSON(ctx, req, out)
}

// SearchGames returns normalized games matching the query, at most ten.
func (c *IGDBClient) SearchGames(ctx context.Context, query string) ([]*media.VideoGame, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "igdb:search:" + query
	var cached []*media.VideoGame
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	body := fmt.Sprintf("search %q; fields %s; limit 10;", query, igdbGameFields)
	var results []igdbGame
	if err := c.query(ctx, body, &results); err != nil {
		return nil, err
	}

	games := make([]*media.VideoGame, 0, len(results))
	for _, g := range results {
		games = append(games, normalizeGame(g))
	}

	c.storeCache(ctx, cacheKey, games, searchCacheTTL)
	return games, nil
}

// GameByID fetches and normalizes one game. The id must be numeric, as it is
// interpolated into the Apicalypse query.
func (c *IGDBClient) GameByID(ctx context.Context, id string) (*media.VideoGame, error) {
	gameID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid game id %q: %w", id, err)
	}

	key := "igdb:game:" + id
	var cached media.VideoGame
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	body := fmt.Sprintf("where id = %d; fields %s; limit 1;", gameID, igdbGameFields)
	var results []igdbGame
	if err := c.query(ctx, body, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}

	game := normalizeGame(results[0])
	c.storeCache(ctx, key, game, detailsCacheTTL)
	return game, nil
}

func normalizeGame(g igdbGame) *media.VideoGame {
	summary := g.Summary
	if summary == "" {
		summary = "No summary available."
	}

	var releaseDate string
	if g.FirstReleaseDate > 0 {
		releaseDate = time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006-01-02")
	}

	var coverArt string
	if g.Cover.ImageID != "" {
		coverArt = fmt.Sprintf("%s/%s.jpg", igdbCoverURL, g.Cover.ImageID)
	}

	genres := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		genres = append(genres, genre.Name)
	}
	companies := make([]string, 0, len(g.InvolvedCompanies))
	for _, ic := range g.InvolvedCompanies {
		companies = append(companies, ic.Company.Name)
	}
	platforms := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		platforms = append(platforms, p.Name)
	}

	sourceURL := g.URL
	if sourceURL == "" {
		slug := g.Slug
		if slug == "" {
			slug = strings.Join(strings.Fields(strings.ToLower(g.Name)), "-")
		}
		sourceURL = igdbSiteURL + "/" + slug
	}

	return &media.VideoGame{
		ID:          strconv.FormatInt(g.ID, 10),
		Title:       g.Name,
		Summary:     summary,
		ReleaseDate: releaseDate,
		CoverArt:    coverArt,
		Genres:      genres,
		Companies:   companies,
		Platforms:   platforms,
		SourceURL:   sourceURL,
	}
}
