package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/blob"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// InteractionLogger writes generation and feedback records into their object
// store buckets using the historical log_<id>_json key format.
type InteractionLogger struct {
	store            blob.Store
	generationBucket string
	feedbackBucket   string
	logger           *slog.Logger
}

func NewInteractionLogger(store blob.Store, generationBucket, feedbackBucket string, logger *slog.Logger) *InteractionLogger {
	metrics.InitAppMetrics()
	return &InteractionLogger{
		store:            store,
		generationBucket: generationBucket,
		feedbackBucket:   feedbackBucket,
		logger:           logger,
	}
}

// LogGeneration uploads the query/model/itinerary triple of a finished
// generation. The record ID and the blob key share one timestamp.
func (il *InteractionLogger) LogGeneration(ctx context.Context, query, llm string, doc *types.Itinerary) error {
	id := GenerateLogID()
	record := types.GenerationRecord{
		ID:        id,
		Query:     query,
		LLM:       llm,
		Itinerary: doc,
	}
	return il.upload(ctx, il.generationBucket, id, record)
}

// LogFeedback uploads the original generation triple together with the
// user's rating and free-text feedback.
func (il *InteractionLogger) LogFeedback(ctx context.Context, query, llm string, doc *types.Itinerary, rating int, feedback string) error {
	id := GenerateLogID()
	record := types.FeedbackRecord{
		ID:           id,
		Query:        query,
		LLM:          llm,
		Itinerary:    doc,
		UserRating:   rating,
		UserFeedback: feedback,
	}
	return il.upload(ctx, il.feedbackBucket, id, record)
}

func (il *InteractionLogger) upload(ctx context.Context, bucket, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return &types.StorageError{Container: bucket, Err: err}
	}

	key := fmt.Sprintf("log_%s_json", id)
	if err := il.store.Put(ctx, bucket, key, data); err != nil {
		metrics.Get().LogUploadErrorsTotal.Add(ctx, 1)
		il.logger.ErrorContext(ctx, "Failed to upload interaction log",
			slog.String("bucket", bucket),
			slog.String("key", key),
			slog.Any("error", err))
		return &types.StorageError{Container: bucket, Err: err}
	}

	il.logger.InfoContext(ctx, "Uploaded interaction log",
		slog.String("bucket", bucket), slog.String("key", key))
	return nil
}
