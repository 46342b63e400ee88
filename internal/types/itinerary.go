package types

import "github.com/google/uuid"

// Itinerary is the parsed document produced by the LLM and enriched with
// Places metadata. Field names follow the JSON shape the prompt template
// demands from the model ("Name" capitalised, days under "data").
type Itinerary struct {
	Name        string `json:"Name"`
	Description string `json:"description"`
	Budget      string `json:"budget"`
	Days        []Day  `json:"data"`
}

// Day groups the places planned for a single itinerary day. The day number
// is LLM-controlled and treated as opaque.
type Day struct {
	Day         int     `json:"day"`
	Description string  `json:"day_description"`
	Places      []Place `json:"places"`
}

// Place starts with the four LLM-supplied fields and is mutated in place by
// the enrichment engine. A place whose lookup finds no candidate keeps only
// the pre-enrichment fields.
type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TimeToVisit string `json:"time_to_visit"`
	Budget      string `json:"budget"`

	Address          string   `json:"address,omitempty"`
	Latitude         float64  `json:"latitude,omitempty"`
	Longitude        float64  `json:"longitude,omitempty"`
	EditorialSummary string   `json:"editorial_summary,omitempty"`
	Reviews          []Review `json:"reviews,omitempty"`
	Type             string   `json:"type,omitempty"`
	Website          string   `json:"website,omitempty"`
	PhoneNumber      string   `json:"formatted_phone_number,omitempty"`
	PriceLevel       int      `json:"price_level,omitempty"`
	Rating           float32  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
}

// Review is a single user review carried over from the place details lookup.
type Review struct {
	AuthorName   string `json:"author_name"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	RelativeTime string `json:"relative_time_description,omitempty"`
}

// GenerationRequest is the input for one itinerary generation. Dates, times
// and budget stay free-form strings; they are interpolated into the prompt,
// never parsed.
type GenerationRequest struct {
	LLM            string `json:"llm"`
	Destination    string `json:"destination"`
	Budget         string `json:"budget"`
	ArrivalDate    string `json:"arrival_date"`
	DepartureDate  string `json:"departure_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// GenerationResult pairs the enriched document with the session token the
// caller needs to submit feedback later.
type GenerationResult struct {
	SessionID uuid.UUID  `json:"session_id"`
	Itinerary *Itinerary `json:"itinerary"`
}
