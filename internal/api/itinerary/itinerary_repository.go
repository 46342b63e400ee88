package itinerary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Repository persists raw LLM interactions for offline analysis.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error
}

// DBExecutor is the subset of pgxpool.Pool the repository needs.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	db     DBExecutor
	logger *slog.Logger
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db DBExecutor, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

func (r *PostgresRepository) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "SaveInteraction")
	defer span.End()

	query := `
        INSERT INTO llm_interactions (prompt, response_text, model_used, latency_ms)
        VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		interaction.Prompt,
		interaction.ResponseText,
		interaction.ModelUsed,
		interaction.LatencyMs,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		r.logger.ErrorContext(ctx, "Failed to save llm interaction",
			slog.String("model", interaction.ModelUsed), slog.Any("error", err))
		return fmt.Errorf("failed to save llm interaction: %w", err)
	}

	span.SetStatus(codes.Ok, "interaction saved")
	return nil
}
