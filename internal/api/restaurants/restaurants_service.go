package restaurants

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const defaultBaseURL = "https://api.yelp.com/v3"

// Recommender returns restaurant names worth suggesting for a destination.
type Recommender interface {
	Recommend(ctx context.Context, destination string) ([]string, error)
}

// YelpRecommender queries the Yelp Fusion business search endpoint and caches
// results per destination so repeated generations for the same city do not
// burn through the API quota.
type YelpRecommender struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	cache      *cache.Cache
	logger     *slog.Logger
}

var _ Recommender = (*YelpRecommender)(nil)

func NewYelpRecommender(apiKey string, cacheTTL time.Duration, logger *slog.Logger) *YelpRecommender {
	return &YelpRecommender{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

func (y *YelpRecommender) Recommend(ctx context.Context, destination string) ([]string, error) {
	ctx, span := otel.Tracer("RestaurantRecommender").Start(ctx, "Recommend")
	defer span.End()

	if cached, found := y.cache.Get(destination); found {
		span.SetStatus(codes.Ok, "cache hit")
		return cached.([]string), nil
	}

	q := url.Values{}
	q.Set("location", destination)
	q.Set("term", "restaurants")
	q.Set("sort_by", "rating")
	q.Set("limit", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/businesses/search?"+q.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+y.apiKey)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "business search request failed")
		return nil, fmt.Errorf("failed to search restaurants for %q: %w", destination, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "business search returned non-200")
		return nil, fmt.Errorf("restaurant search returned status %d", resp.StatusCode)
	}

	var body struct {
		Businesses []struct {
			Name string `json:"name"`
		} `json:"businesses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode restaurant search response: %w", err)
	}

	names := make([]string, 0, len(body.Businesses))
	for _, b := range body.Businesses {
		names = append(names, b.Name)
	}

	y.cache.Set(destination, names, cache.DefaultExpiration)
	y.logger.DebugContext(ctx, "Cached restaurant recommendations",
		slog.String("destination", destination), slog.Int("count", len(names)))

	span.SetStatus(codes.Ok, "recommendations fetched")
	return names, nil
}
