package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

const (
	tmdbAPIURL   = "https://api.themoviedb.org/3"
	tmdbImageURL = "https://image.tmdb.org/t/p/w500"
	tmdbSiteURL  = "https://www.themoviedb.org"

	// tmdbCastLimit caps how many cast names are kept on a normalized record.
	tmdbCastLimit = 5
)

type TMDBConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Redis      *redis.Client
	Logger     *log.Logger
}

// TMDBClient searches and fetches movies and TV shows from The Movie Database,
// normalizing responses into media.Movie and media.TV records.
type TMDBClient struct {
	apiClient
	apiKey  string
	baseURL string
}

func NewTMDBClient(cfg TMDBConfig) *TMDBClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = tmdbAPIURL
	}
	return &TMDBClient{
		apiClient: newAPIClient(cfg.HTTPClient, cfg.Limiter, cfg.Redis, cfg.Logger),
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
	}
}

type tmdbName struct {
	Name string `json:"name"`
}

type tmdbListing struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type tmdbMovieDetails struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	ReleaseDate string     `json:"release_date"`
	PosterPath  string     `json:"poster_path"`
	Runtime     int        `json:"runtime"`
	Genres      []tmdbName `json:"genres"`
}

type tmdbTVDetails struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Overview         string     `json:"overview"`
	PosterPath       string     `json:"poster_path"`
	FirstAirDate     string     `json:"first_air_date"`
	LastAirDate      string     `json:"last_air_date"`
	Genres           []tmdbName `json:"genres"`
	CreatedBy        []tmdbName `json:"created_by"`
	NumberOfEpisodes int        `json:"number_of_episodes"`
	NumberOfSeasons  int        `json:"number_of_seasons"`
}

type tmdbCredits struct {
	Cast []tmdbName `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, req, out)
}

// SearchMovies returns normalized movies matching the query. Each hit costs two
// further detail requests; hits whose details cannot be fetched are skipped.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]*media.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "tmdb:search:movie:" + query
	var cached []*media.Movie
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("query", query)
	var listing tmdbListing
	if err := c.get(ctx, "/search/movie", params, &listing); err != nil {
		return nil, err
	}

	movies := make([]*media.Movie, 0, len(listing.Results))
	for _, r := range listing.Results {
		m, err := c.MovieByID(ctx, strconv.Itoa(r.ID))
		if err != nil {
			c.logger.Warnf("Skipping movie %d: %v", r.ID, err)
			continue
		}
		movies = append(movies, m)
	}

	c.storeCache(ctx, cacheKey, movies, searchCacheTTL)
	return movies, nil
}

// MovieByID fetches and normalizes one movie, combining the details and credits
// endpoints.
func (c *TMDBClient) MovieByID(ctx context.Context, id string) (*media.Movie, error) {
	key := "tmdb:movie:" + id
	var cached media.Movie
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var details tmdbMovieDetails
	if err := c.get(ctx, "/movie/"+id, nil, &details); err != nil {
		return nil, err
	}
	var credits tmdbCredits
	if err := c.get(ctx, "/movie/"+id+"/credits", nil, &credits); err != nil {
		return nil, err
	}

	m := &media.Movie{
		ID:          id,
		Title:       details.Title,
		Director:    directorOf(credits),
		Description: details.Overview,
		ReleaseDate: details.ReleaseDate,
		PosterPath:  posterURL(details.PosterPath),
		Cast:        castOf(credits),
		Genres:      namesOf(details.Genres),
		Runtime:     details.Runtime,
		SourceURL:   tmdbSiteURL + "/movie/" + id,
	}
	c.storeCache(ctx, key, m, detailsCacheTTL)
	return m, nil
}

// SearchTV returns normalized TV shows matching the query.
func (c *TMDBClient) SearchTV(ctx context.Context, query string) ([]*media.TV, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "tmdb:search:tv:" + query
	var cached []*media.TV
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("query", query)
	var listing tmdbListing
	if err := c.get(ctx, "/search/tv", params, &listing); err != nil {
		return nil, err
	}

	shows := make([]*media.TV, 0, len(listing.Results))
	for _, r := range listing.Results {
		show, err := c.TVByID(ctx, strconv.Itoa(r.ID))
		if err != nil {
			c.logger.Warnf("Skipping TV show %d: %v", r.ID, err)
			continue
		}
		shows = append(shows, show)
	}

	c.storeCache(ctx, cacheKey, shows, searchCacheTTL)
	return shows, nil
}

// TVByID fetches and normalizes one TV show.
func (c *TMDBClient) TVByID(ctx context.Context, id string) (*media.TV, error) {
	key := "tmdb:tv:" + id
	var cached media.TV
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var details tmdbTVDetails
	if err := c.get(ctx, "/tv/"+id, nil, &details); err != nil {
		return nil, err
	}
	var credits tmdbCredits
	if err := c.get(ctx, "/tv/"+id+"/credits", nil, &credits); err != nil {
		return nil, err
	}

	var creator string
	if len(details.CreatedBy) > 0 {
		creator = details.CreatedBy[0].Name
	}

	show := &media.TV{
		ID:            id,
		Title:         details.Name,
		PosterPath:    posterURL(details.PosterPath),
		Description:   details.Overview,
		FirstAirDate:  details.FirstAirDate,
		LastAirDate:   details.LastAirDate,
		Cast:          castOf(credits),
		Genres:        namesOf(details.Genres),
		Creator:       creator,
		TotalEpisodes: details.NumberOfEpisodes,
		TotalSeasons:  details.NumberOfSeasons,
		SourceURL:     tmdbSiteURL + "/tv/" + id,
	}
	c.storeCache(ctx, key, show, detailsCacheTTL)
	return show, nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageURL + path
}

func directorOf(credits tmdbCredits) string {
	for _, c := range credits.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

func castOf(credits tmdbCredits) []string {
	cast := credits.Cast
	if len(cast) > tmdbCastLimit {
		cast = cast[:tmdbCastLimit]
	}
	return namesOf(cast)
}

func namesOf(names []tmdbName) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.Name)
	}
	return out
}
