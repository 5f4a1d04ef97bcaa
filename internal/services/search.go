package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tanvirhm/recipe-vault/backend/internal/models"
)

var (
	// ErrEmptyQuery signals a missing search query.
	ErrEmptyQuery = errors.New("search query is required")
	// ErrUpstream signals a failure of the external recipe provider. The
	// upstream payload is logged server-side and never attached here.
	ErrUpstream = errors.New("recipe provider unavailable")
)

const searchResultCount = 12

// SearchClient forwards keyword queries to the external recipe provider and
// reshapes its results. The API key stays server-side.
type SearchClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSearchClient creates a new SearchClient with a bounded request timeout
func NewSearchClient(baseURL, apiKey string) *SearchClient {
	return &SearchClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search calls the provider's complexSearch endpoint for the given keyword
func (c *SearchClient) Search(ctx context.Context, query string) ([]models.RecipeSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(searchResultCount))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/recipes/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Recipe provider request failed: %v", err)
		return nil, ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Recipe provider returned %d: %s", resp.StatusCode, string(body))
		return nil, ErrUpstream
	}

	var result struct {
		Results []struct {
			ID    json.Number `json:"id"`
			Title string      `json:"title"`
			Image string      `json:"image"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Recipe provider response decode failed: %v", err)
		return nil, fmt.Errorf("%w: bad response", ErrUpstream)
	}

	summaries := make([]models.RecipeSummary, 0, len(result.Results))
	for _, r := range result.Results {
		summaries = append(summaries, models.RecipeSummary{
			APIID: r.ID.String(),
			Title: r.Title,
			Image: r.Image,
		})
	}
	return summaries, nil
}
