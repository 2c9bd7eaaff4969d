// Package recipes is a client for the findByNutrients recipe search API.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nutri-go/internal/config"
	"nutri-go/internal/nutri"
)

// APIError is returned when the recipe API answers with a non-200 status.
// Body is the response body, verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("recipe api: status %d: %s", e.Status, e.Body)
}

// Client calls the recipe search API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a Client for baseURL (e.g. https://api.spoonacular.com).
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewFinderFromConfig returns a RecipeFinder for cfg, or nil when no API key
// is configured.
func NewFinderFromConfig(cfg config.RecipesConfig) nutri.RecipeFinder {
	if cfg.APIKey == "" {
		return nil
	}
	base := cfg.BaseURL
	if base == "" {
		base = config.DefaultRecipesBaseURL
	}
	return NewClient(base, cfg.APIKey)
}

// recipeResult is one element of the findByNutrients response array.
type recipeResult struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Calories float64 `json:"calories"`
}

// FindByNutrients searches recipes whose nutrients fall within q.
func (c *Client) FindByNutrients(ctx context.Context, q nutri.RecipeQuery) ([]nutri.Recipe, error) {
	params := url.Values{}
	params.Set("minCalories", formatFloat(q.MinCalories))
	params.Set("maxCalories", formatFloat(q.MaxCalories))
	params.Set("minProtein", formatFloat(q.MinProtein))
	params.Set("maxProtein", formatFloat(q.MaxProtein))
	params.Set("minCarbs", formatFloat(q.MinCarbs))
	params.Set("maxCarbs", formatFloat(q.MaxCarbs))
	params.Set("minFat", formatFloat(q.MinFat))
	params.Set("maxFat", formatFloat(q.MaxFat))
	params.Set("number", strconv.Itoa(q.Number))
	params.Set("apiKey", c.APIKey)

	u := c.BaseURL + "/recipes/findByNutrients?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling recipe api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading recipe api response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var results []recipeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decoding recipe api response: %w", err)
	}

	recipes := make([]nutri.Recipe, 0, len(results))
	for _, r := range results {
		recipes = append(recipes, nutri.Recipe{
			ID:       r.ID,
			Title:    r.Title,
			Image:    r.Image,
			Calories: r.Calories,
		})
	}
	return recipes, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ nutri.RecipeFinder = (*Client)(nil)
