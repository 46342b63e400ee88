package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/restaurants"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// supportedModel is the user-facing label for the only model currently
	// wired up. The switch in Generate exists so more labels can be added
	// without changing the API shape.
	supportedModel = "Atlas v2"

	generationTemperature float32 = 0.9
)

// Service generates itineraries and accepts feedback on past generations.
type Service interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
	SubmitFeedback(ctx context.Context, sessionID uuid.UUID, fb types.FeedbackRequest) error
}

// generationSession keeps the triple needed for a later feedback record.
type generationSession struct {
	query     string
	llm       string
	itinerary *types.Itinerary
	createdAt time.Time
}

// ServiceImpl orchestrates the full generation pipeline: restaurant
// recommendations, the planner completion, JSON extraction, place enrichment
// and interaction logging.
type ServiceImpl struct {
	logger       *slog.Logger
	completions  CompletionClient
	extractor    *Extractor
	enricher     *Enricher
	restaurants  restaurants.Recommender
	interactions *InteractionLogger
	repo         Repository
	sessionTTL   time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*generationSession
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(
	completions CompletionClient,
	extractor *Extractor,
	enricher *Enricher,
	recommender restaurants.Recommender,
	interactions *InteractionLogger,
	repo Repository,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *ServiceImpl {
	metrics.InitAppMetrics()
	return &ServiceImpl{
		logger:       logger,
		completions:  completions,
		extractor:    extractor,
		enricher:     enricher,
		restaurants:  recommender,
		interactions: interactions,
		repo:         repo,
		sessionTTL:   sessionTTL,
		sessions:     make(map[uuid.UUID]*generationSession),
	}
}

// Generate runs the whole pipeline and returns the enriched itinerary plus a
// session token for later feedback. Interaction persistence and log uploads
// are best effort; only completion and extraction failures abort the run.
func (s *ServiceImpl) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("itinerary.llm", req.LLM),
		attribute.String("itinerary.destination", req.Destination),
	)

	l := s.logger.With(slog.String("destination", req.Destination), slog.String("llm", req.LLM))

	if req.LLM != supportedModel {
		span.SetStatus(codes.Error, "unsupported llm choice")
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedModel, req.LLM)
	}

	started := time.Now()

	restaurantNames, err := s.restaurants.Recommend(ctx, req.Destination)
	if err != nil {
		l.WarnContext(ctx, "Restaurant recommendation failed, continuing without it", slog.Any("error", err))
		restaurantNames = nil
	}

	query, template := buildUserQuery(
		req.Destination, req.Budget, req.ArrivalDate, req.DepartureDate,
		req.StartTime, req.EndTime, req.AdditionalInfo, restaurantNames,
	)

	completionStart := time.Now()
	responseText, err := s.completions.Complete(ctx, systemPrompt, template, generationTemperature)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "planner completion failed")
		return nil, fmt.Errorf("planner completion failed: %w", err)
	}
	latencyMs := int(time.Since(completionStart).Milliseconds())

	if err := s.repo.SaveInteraction(ctx, types.LlmInteraction{
		Prompt:       template,
		ResponseText: responseText,
		ModelUsed:    req.LLM,
		LatencyMs:    latencyMs,
	}); err != nil {
		l.WarnContext(ctx, "Failed to persist llm interaction", slog.Any("error", err))
	}

	doc, err := s.extractor.Extract(ctx, responseText)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "itinerary extraction failed")
		return nil, err
	}

	s.enricher.Enrich(ctx, req.Destination, doc)

	if err := s.interactions.LogGeneration(ctx, query, req.LLM, doc); err != nil {
		l.WarnContext(ctx, "Failed to upload generation log", slog.Any("error", err))
	}

	sessionID := uuid.New()
	s.mu.Lock()
	s.pruneExpiredLocked()
	s.sessions[sessionID] = &generationSession{
		query:     query,
		llm:       req.LLM,
		itinerary: doc,
		createdAt: time.Now(),
	}
	s.mu.Unlock()

	metrics.Get().GenerationsTotal.Add(ctx, 1)
	metrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(started).Seconds())

	l.InfoContext(ctx, "Itinerary generated",
		slog.String("session_id", sessionID.String()),
		slog.Int("days", len(doc.Days)),
		slog.Int("latency_ms", latencyMs))

	span.SetStatus(codes.Ok, "itinerary generated")
	return &types.GenerationResult{SessionID: sessionID, Itinerary: doc}, nil
}

// SubmitFeedback pairs the rating with the cached generation for the session
// token and uploads the combined record.
func (s *ServiceImpl) SubmitFeedback(ctx context.Context, sessionID uuid.UUID, fb types.FeedbackRequest) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "SubmitFeedback")
	defer span.End()
	span.SetAttributes(attribute.String("itinerary.session_id", sessionID.String()))

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && time.Since(session.createdAt) > s.sessionTTL {
		delete(s.sessions, sessionID)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		span.SetStatus(codes.Error, "unknown session")
		return fmt.Errorf("%w: %s", types.ErrNoPriorGeneration, sessionID)
	}

	if err := s.interactions.LogFeedback(ctx, session.query, session.llm, session.itinerary, fb.UserRating, fb.UserFeedback); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feedback upload failed")
		return err
	}

	span.SetStatus(codes.Ok, "feedback recorded")
	return nil
}

// pruneExpiredLocked drops sessions past their TTL. Caller holds s.mu.
func (s *ServiceImpl) pruneExpiredLocked() {
	cutoff := time.Now().Add(-s.sessionTTL)
	for id, session := range s.sessions {
		if session.createdAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
