package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// HandlerImpl exposes the itinerary service over HTTP.
type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// Generate handles POST /api/v1/itineraries.
func (h *HandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate")
	defer span.End()
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/itineraries"),
	)

	var req types.GenerationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Destination == "" {
		span.SetStatus(codes.Error, "missing destination")
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination is required")
		return
	}

	result, err := h.service.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		var extractionErr *types.ExtractionError
		switch {
		case errors.Is(err, types.ErrUnsupportedModel):
			span.SetStatus(codes.Error, "unsupported llm choice")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &extractionErr):
			span.SetStatus(codes.Error, "itinerary extraction failed")
			api.ErrorResponse(w, r, http.StatusBadGateway, "generated itinerary could not be parsed")
		default:
			span.SetStatus(codes.Error, "generation failed")
			h.logger.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "itinerary generation failed")
		}
		return
	}

	span.SetAttributes(attribute.String("itinerary.session_id", result.SessionID.String()))
	span.SetStatus(codes.Ok, "itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusCreated, result)
}

// SubmitFeedback handles POST /api/v1/itineraries/{sessionID}/feedback.
func (h *HandlerImpl) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "SubmitFeedback")
	defer span.End()
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/itineraries/{sessionID}/feedback"),
	)

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid session id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid session ID")
		return
	}

	var fb types.FeedbackRequest
	if err := api.DecodeJSONBody(w, r, &fb); err != nil {
		span.SetStatus(codes.Error, "invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SubmitFeedback(ctx, sessionID, fb); err != nil {
		span.RecordError(err)
		var storageErr *types.StorageError
		switch {
		case errors.Is(err, types.ErrNoPriorGeneration):
			span.SetStatus(codes.Error, "unknown session")
			api.ErrorResponse(w, r, http.StatusNotFound, "no generation found for this session")
		case errors.As(err, &storageErr):
			span.SetStatus(codes.Error, "feedback upload failed")
			api.ErrorResponse(w, r, http.StatusBadGateway, "failed to store feedback")
		default:
			span.SetStatus(codes.Error, "feedback failed")
			h.logger.ErrorContext(ctx, "Feedback submission failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to submit feedback")
		}
		return
	}

	span.SetStatus(codes.Ok, "feedback recorded")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
