package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const photoMaxWidth = 400

// Enricher resolves every place in an itinerary against the Places API and
// fills in address, coordinates, reviews and a photo URL.
type Enricher struct {
	places        places.Client
	lookupTimeout time.Duration
	logger        *slog.Logger
}

func NewEnricher(client places.Client, lookupTimeout time.Duration, logger *slog.Logger) *Enricher {
	metrics.InitAppMetrics()
	return &Enricher{
		places:        client,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Enrich fans out one lookup per place and waits for all of them. A failed
// lookup never aborts the sibling lookups and never fails the generation;
// the place simply keeps whatever the model wrote for it. Day and place
// order is preserved because each goroutine mutates its own slot.
func (e *Enricher) Enrich(ctx context.Context, destination string, doc *types.Itinerary) {
	ctx, span := otel.Tracer("ItineraryEnricher").Start(ctx, "Enrich")
	defer span.End()

	var wg sync.WaitGroup
	total := 0
	for di := range doc.Days {
		for pi := range doc.Days[di].Places {
			place := &doc.Days[di].Places[pi]
			total++
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := e.enrichPlace(ctx, destination, place); err != nil {
					metrics.Get().EnrichmentFailuresTotal.Add(ctx, 1)
					e.logger.WarnContext(ctx, "Place enrichment failed",
						slog.String("place", place.Name),
						slog.String("destination", destination),
						slog.Any("error", err))
				}
			}()
		}
	}
	wg.Wait()
	span.SetAttributes(attribute.Int("enrichment.places", total))
}

func (e *Enricher) enrichPlace(ctx context.Context, destination string, place *types.Place) error {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	placeID, err := e.places.FindCandidate(ctx, place.Name+", "+destination)
	if err != nil {
		return fmt.Errorf("candidate lookup: %w", err)
	}
	if placeID == "" {
		// Nothing matched; keep the model-supplied fields as they are.
		return nil
	}

	details, err := e.places.Details(ctx, placeID)
	if err != nil {
		return fmt.Errorf("details lookup: %w", err)
	}

	if details.Name != "" {
		place.Name = details.Name
	}
	place.Address = details.FormattedAddress
	place.Latitude = details.Latitude
	place.Longitude = details.Longitude
	place.EditorialSummary = details.EditorialSummary
	place.Website = details.Website
	place.PhoneNumber = details.PhoneNumber
	place.PriceLevel = details.PriceLevel
	place.Rating = details.Rating
	place.UserRatingsTotal = details.UserRatingsTotal
	if len(details.Types) > 0 {
		place.Type = details.Types[0]
	}
	place.Reviews = nil
	for _, review := range details.Reviews {
		place.Reviews = append(place.Reviews, types.Review{
			AuthorName:   review.AuthorName,
			Rating:       review.Rating,
			Text:         review.Text,
			RelativeTime: review.RelativeTime,
		})
	}

	// Photo resolution is best effort: the details above are already
	// applied, so a missing photo never marks the place as failed.
	if len(details.PhotoReferences) > 0 {
		photoURL, err := e.places.PhotoURL(ctx, details.PhotoReferences[0], photoMaxWidth)
		if err != nil {
			e.logger.WarnContext(ctx, "Photo lookup failed",
				slog.String("place", place.Name), slog.Any("error", err))
		} else {
			place.PhotoURL = photoURL
		}
	}

	return nil
}
