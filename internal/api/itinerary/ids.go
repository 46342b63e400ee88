package itinerary

import "time"

// GenerateLogID returns the timestamp-based identifier used for log records
// and blob keys. Second resolution matches the historical log naming, so
// records written in the same second overwrite each other (last write wins).
func GenerateLogID() string {
	return time.Now().Format("20060102150405")
}
