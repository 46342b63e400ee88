package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"googlemaps.github.io/maps"
)

const legacyAPIBase = "https://maps.googleapis.com/maps/api/place"

// Review is a single user review attached to a place.
type Review struct {
	AuthorName   string
	Rating       int
	Text         string
	RelativeTime string
}

// Details carries the fields the enrichment step consumes.
type Details struct {
	Name             string
	FormattedAddress string
	Latitude         float64
	Longitude        float64
	EditorialSummary string
	Reviews          []Review
	Types            []string
	Website          string
	PhoneNumber      string
	PriceLevel       int
	Rating           float32
	UserRatingsTotal int
	PhotoReferences  []string
}

// Client resolves free-text place queries against the Places API.
type Client interface {
	// FindCandidate returns the place ID of the best match for the text
	// query, or "" when the API has no candidate.
	FindCandidate(ctx context.Context, textQuery string) (string, error)
	Details(ctx context.Context, placeID string) (*Details, error)
	// PhotoURL resolves a photo reference to the final CDN URL.
	PhotoURL(ctx context.Context, photoReference string, maxWidth int) (string, error)
}

// GoogleClient implements Client on top of the Google Maps SDK, with direct
// HTTP calls for the endpoints the SDK does not cover.
type GoogleClient struct {
	client     *maps.Client
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
}

var _ Client = (*GoogleClient)(nil)

func NewGoogleClient(apiKey string, logger *slog.Logger) (*GoogleClient, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{
		client:     client,
		httpClient: &http.Client{},
		apiKey:     apiKey,
		logger:     logger,
	}, nil
}

func (g *GoogleClient) FindCandidate(ctx context.Context, textQuery string) (string, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "FindCandidate")
	defer span.End()

	resp, err := g.client.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     textQuery,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields:    []maps.PlaceSearchFieldMask{maps.PlaceSearchFieldMaskPlaceID},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find place request failed")
		return "", fmt.Errorf("failed to find place for %q: %w", textQuery, err)
	}
	if len(resp.Candidates) == 0 {
		span.SetStatus(codes.Ok, "no candidates")
		return "", nil
	}
	span.SetStatus(codes.Ok, "candidate found")
	return resp.Candidates[0].PlaceID, nil
}

func (g *GoogleClient) Details(ctx context.Context, placeID string) (*Details, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "Details")
	defer span.End()

	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskReviews,
			maps.PlaceDetailsFieldMaskTypes,
			maps.PlaceDetailsFieldMaskWebsite,
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskPriceLevel,
			maps.PlaceDetailsFieldMaskRatings,
			maps.PlaceDetailsFieldMaskUserRatingsTotal,
			maps.PlaceDetailsFieldMaskPhotos,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place details request failed")
		return nil, fmt.Errorf("failed to fetch details for place %s: %w", placeID, err)
	}

	details := &Details{
		Name:             resp.Name,
		FormattedAddress: resp.FormattedAddress,
		Latitude:         resp.Geometry.Location.Lat,
		Longitude:        resp.Geometry.Location.Lng,
		Types:            resp.Types,
		Website:          resp.Website,
		PhoneNumber:      resp.FormattedPhoneNumber,
		PriceLevel:       resp.PriceLevel,
		Rating:           resp.Rating,
		UserRatingsTotal: resp.UserRatingsTotal,
	}
	for _, review := range resp.Reviews {
		details.Reviews = append(details.Reviews, Review{
			AuthorName:   review.AuthorName,
			Rating:       review.Rating,
			Text:         review.Text,
			RelativeTime: review.RelativeTimeDescription,
		})
	}
	for _, photo := range resp.Photos {
		details.PhotoReferences = append(details.PhotoReferences, photo.PhotoReference)
	}

	// The SDK has no field mask for editorial summaries, so fetch that one
	// field over the REST endpoint. Missing summaries are not an error.
	summary, err := g.fetchEditorialSummary(ctx, placeID)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to fetch editorial summary",
			slog.String("place_id", placeID), slog.Any("error", err))
	} else {
		details.EditorialSummary = summary
	}

	span.SetStatus(codes.Ok, "details fetched")
	return details, nil
}

func (g *GoogleClient) fetchEditorialSummary(ctx context.Context, placeID string) (string, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "editorial_summary")
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, legacyAPIBase+"/details/json?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("place details endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Result struct {
			EditorialSummary struct {
				Overview string `json:"overview"`
			} `json:"editorial_summary"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Result.EditorialSummary.Overview, nil
}

// PhotoURL requests the photo endpoint and returns the URL it redirects to,
// so clients can load the image without exposing the API key.
func (g *GoogleClient) PhotoURL(ctx context.Context, photoReference string, maxWidth int) (string, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "PhotoURL")
	defer span.End()

	q := url.Values{}
	q.Set("photoreference", photoReference)
	q.Set("maxwidth", fmt.Sprintf("%d", maxWidth))
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, legacyAPIBase+"/photo?"+q.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "photo request failed")
		return "", fmt.Errorf("failed to fetch photo: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "photo endpoint returned non-200")
		return "", fmt.Errorf("photo endpoint returned status %d", resp.StatusCode)
	}

	span.SetStatus(codes.Ok, "photo url resolved")
	return resp.Request.URL.String(), nil
}
