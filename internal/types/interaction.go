package types

// LlmInteraction is the raw prompt/response pair persisted for every
// completion call, with the measured round-trip latency.
type LlmInteraction struct {
	Prompt       string `json:"prompt"`
	ResponseText string `json:"response_text"`
	ModelUsed    string `json:"model_used"`
	LatencyMs    int    `json:"latency_ms"`
}

// GenerationRecord is the immutable log entry written to the generation
// bucket after a successful run. JSON keys match the historical log format
// so downstream analysis keeps working.
type GenerationRecord struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	LLM       string     `json:"llm"`
	Itinerary *Itinerary `json:"itinerary"`
}

// FeedbackRecord extends the generation triple with the user's rating and
// free-text feedback. Written to the feedback bucket.
type FeedbackRecord struct {
	ID           string     `json:"id"`
	Query        string     `json:"user_query"`
	LLM          string     `json:"LLM"`
	Itinerary    *Itinerary `json:"itinerary"`
	UserRating   int        `json:"user_rating"`
	UserFeedback string     `json:"user_feedback"`
}

// FeedbackRequest is the HTTP body for a feedback submission.
type FeedbackRequest struct {
	UserRating   int    `json:"user_rating"`
	UserFeedback string `json:"user_feedback"`
}
