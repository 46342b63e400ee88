package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// CompletionClient issues single-turn completions against the configured LLM.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Extractor turns a raw model response into a parsed itinerary document,
// falling back to a single zero-temperature repair completion when the first
// parse fails. With a nil completion client a malformed document is reported
// as such instead of being repaired.
type Extractor struct {
	completions CompletionClient
	logger      *slog.Logger
}

func NewExtractor(completions CompletionClient, logger *slog.Logger) *Extractor {
	metrics.InitAppMetrics()
	return &Extractor{
		completions: completions,
		logger:      logger,
	}
}

// Extract locates the JSON document in the raw response, cleans it up and
// parses it. On parse failure it asks the model to repair the document once;
// if the repaired text still does not parse, the error is unrecoverable.
func (e *Extractor) Extract(ctx context.Context, raw string) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryExtractor").Start(ctx, "Extract")
	defer span.End()

	block, err := extractJSONBlock(raw)
	if err != nil {
		span.SetStatus(codes.Error, "no JSON block in response")
		return nil, &types.ExtractionError{Reason: types.NoJSONFound, Err: err}
	}
	block = sanitizeEscapes(stripWrappingBraces(block))

	doc, parseErr := parseItinerary(block)
	if parseErr == nil {
		span.SetStatus(codes.Ok, "parsed on first attempt")
		return doc, nil
	}

	if e.completions == nil {
		span.SetStatus(codes.Error, "malformed document, no repair client")
		return nil, &types.ExtractionError{Reason: types.MalformedJSON, Err: parseErr}
	}

	e.logger.WarnContext(ctx, "Itinerary response is not valid JSON, attempting repair",
		slog.Any("error", parseErr))
	metrics.Get().RepairAttemptsTotal.Add(ctx, 1)

	repaired, err := e.completions.Complete(ctx, "", buildRepairPrompt(block), 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repair completion failed")
		return nil, &types.ExtractionError{Reason: types.UnrecoverableJSON, Err: err}
	}

	block, err = extractJSONBlock(repaired)
	if err != nil {
		span.SetStatus(codes.Error, "repaired response has no JSON block")
		return nil, &types.ExtractionError{Reason: types.UnrecoverableJSON, Err: err}
	}
	block = sanitizeEscapes(stripWrappingBraces(block))

	doc, parseErr = parseItinerary(block)
	if parseErr != nil {
		span.RecordError(parseErr)
		span.SetStatus(codes.Error, "repaired response still malformed")
		return nil, &types.ExtractionError{Reason: types.UnrecoverableJSON, Err: parseErr}
	}

	span.SetStatus(codes.Ok, "parsed after repair")
	return doc, nil
}

// extractJSONBlock returns the first balanced top-level JSON object in raw.
// The scanner is string-aware so braces inside string values do not affect
// depth tracking. An unbalanced document falls back to the span between the
// first opening and last closing brace, leaving completion to the repair pass.
func extractJSONBlock(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", errors.New("no opening brace in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	end := strings.LastIndexByte(raw, '}')
	if end <= start {
		return "", errors.New("no closing brace in response")
	}
	return raw[start : end+1], nil
}

// stripWrappingBraces removes doubled braces around the document one layer at
// a time. Models occasionally echo the literal {{...}} braces from the prompt
// template.
func stripWrappingBraces(s string) string {
	for strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") {
		s = s[1 : len(s)-1]
	}
	return s
}

// sanitizeEscapes drops backslashes that do not start a valid JSON escape
// sequence. Valid pairs are copied through untouched.
func sanitizeEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) {
			switch next := s[i+1]; next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				b.WriteByte(c)
				b.WriteByte(next)
				i++
				continue
			}
		}
	}
	return b.String()
}

func parseItinerary(block string) (*types.Itinerary, error) {
	var doc types.Itinerary
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	if len(doc.Days) == 0 {
		return nil, errors.New(`document has no "data" array`)
	}
	for i, day := range doc.Days {
		if day.Places == nil {
			return nil, fmt.Errorf(`day %d has no "places" array`, i+1)
		}
	}
	return &doc, nil
}
