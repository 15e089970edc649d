package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

const (
	googleBooksAPIURL  = "https://www.googleapis.com/books/v1/volumes"
	googleBooksSiteURL = "https://books.google.com/books?id="
)

type GoogleBooksConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Redis      *redis.Client
	Logger     *log.Logger
}

// GoogleBooksClient searches and fetches book volumes from the Google Books
// API. No credentials are required for volume lookups.
type GoogleBooksClient struct {
	apiClient
	baseURL string
}

func NewGoogleBooksClient(cfg GoogleBooksConfig) *GoogleBooksClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = googleBooksAPIURL
	}
	return &GoogleBooksClient{
		apiClient: newAPIClient(cfg.HTTPClient, cfg.Limiter, cfg.Redis, cfg.Logger),
		baseURL:   cfg.BaseURL,
	}
}

type googleVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Description   string   `json:"description"`
		Publisher     string   `json:"publisher"`
		PublishedDate string   `json:"publishedDate"`
		PageCount     int      `json:"pageCount"`
		ImageLinks    struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
		InfoLink string `json:"infoLink"`
	} `json:"volumeInfo"`
}

type googleVolumeList struct {
	Items []googleVolume `json:"items"`
}

func (c *GoogleBooksClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, req, out)
}

// SearchBooks returns normalized books matching the query, at most ten. Unlike
// the other clients a search hit carries full volume info, so no per-id fetch
// is needed.
func (c *GoogleBooksClient) SearchBooks(ctx context.Context, query string) ([]*media.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	cacheKey := "books:search:" + query
	var cached []*media.Book
	if c.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "10")

	var list googleVolumeList
	if err := c.get(ctx, c.baseURL+"?"+params.Encode(), &list); err != nil {
		return nil, err
	}

	books := make([]*media.Book, 0, len(list.Items))
	for _, item := range list.Items {
		books = append(books, normalizeBook(item))
	}

	c.storeCache(ctx, cacheKey, books, searchCacheTTL)
	return books, nil
}

// BookByID fetches and normalizes one volume.
func (c *GoogleBooksClient) BookByID(ctx context.Context, id string) (*media.Book, error) {
	key := "books:volume:" + id
	var cached media.Book
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var item googleVolume
	if err := c.get(ctx, c.baseURL+"/"+id, &item); err != nil {
		return nil, err
	}

	book := normalizeBook(item)
	c.storeCache(ctx, key, book, detailsCacheTTL)
	return book, nil
}

func normalizeBook(item googleVolume) *media.Book {
	info := item.VolumeInfo

	title := info.Title
	if title == "" {
		title = "Untitled"
	}
	authors := info.Authors
	if len(authors) == 0 {
		authors = []string{"Unknown"}
	}
	synopsis := info.Description
	if synopsis == "" {
		synopsis = "No description available."
	}
	publisher := info.Publisher
	if publisher == "" {
		publisher = "Unknown publisher"
	}
	sourceURL := info.InfoLink
	if sourceURL == "" {
		sourceURL = googleBooksSiteURL + item.ID
	}

	return &media.Book{
		ID:            item.ID,
		Title:         title,
		Authors:       authors,
		Synopsis:      synopsis,
		Publisher:     publisher,
		CoverArt:      info.ImageLinks.Thumbnail,
		DatePublished: info.PublishedDate,
		Pages:         info.PageCount,
		SourceURL:     sourceURL,
	}
}
