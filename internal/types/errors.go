package types

import (
	"errors"
	"fmt"
)

// ExtractionReason classifies why the LLM response could not be coerced into
// a valid itinerary document.
type ExtractionReason string

const (
	NoJSONFound       ExtractionReason = "no_json_found"
	MalformedJSON     ExtractionReason = "malformed_json"
	UnrecoverableJSON ExtractionReason = "unrecoverable_json"
)

// ExtractionError aborts the whole generation: no partial itinerary is ever
// returned when the document cannot be parsed.
type ExtractionError struct {
	Reason ExtractionReason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("itinerary extraction failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("itinerary extraction failed (%s)", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// StorageError wraps a failed object-store upload with the container it was
// destined for.
type StorageError struct {
	Container string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage upload to %q failed: %v", e.Container, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

var (
	// ErrUnsupportedModel is returned for any llm choice other than the one
	// supported label. The switch exists so additional models can be added
	// without changing the API shape.
	ErrUnsupportedModel = errors.New("unsupported llm choice")

	// ErrNoPriorGeneration is returned when feedback arrives for a session
	// token with no cached generation.
	ErrNoPriorGeneration = errors.New("no prior generation for session")
)
