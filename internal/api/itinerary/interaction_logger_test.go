package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/FACorreiaa/go-trip-planner/internal/api/blob"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBlobStore keeps uploaded objects in a map keyed by bucket.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string]map[string][]byte
	failPut bool
}

var _ blob.Store = (*memBlobStore)(nil)

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string]map[string][]byte)}
}

func (m *memBlobStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = data
	return nil
}

func (m *memBlobStore) single(t *testing.T, bucket string) (string, []byte) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.objects[bucket], 1)
	for key, data := range m.objects[bucket] {
		return key, data
	}
	return "", nil
}

func TestLogGenerationWritesRecord(t *testing.T) {
	store := newMemBlobStore()
	il := NewInteractionLogger(store, "gen-bucket", "fb-bucket", discardLogger())

	doc := buildTestItinerary(1, 1)
	err := il.LogGeneration(context.Background(), "plan a trip to Lisbon", "Atlas v2", doc)
	require.NoError(t, err)

	key, data := store.single(t, "gen-bucket")
	assert.True(t, strings.HasPrefix(key, "log_"))
	assert.True(t, strings.HasSuffix(key, "_json"))
	assert.Len(t, key, len("log__json")+14)

	var record types.GenerationRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "plan a trip to Lisbon", record.Query)
	assert.Equal(t, "Atlas v2", record.LLM)
	require.NotNil(t, record.Itinerary)
	assert.Equal(t, "Test Trip", record.Itinerary.Name)
	assert.Equal(t, "log_"+record.ID+"_json", key)

	// Nothing leaked into the feedback bucket.
	assert.Empty(t, store.objects["fb-bucket"])
}

func TestLogFeedbackWritesRecord(t *testing.T) {
	store := newMemBlobStore()
	il := NewInteractionLogger(store, "gen-bucket", "fb-bucket", discardLogger())

	doc := buildTestItinerary(1, 1)
	err := il.LogFeedback(context.Background(), "plan a trip to Lisbon", "Atlas v2", doc, 4, "loved it")
	require.NoError(t, err)

	key, data := store.single(t, "fb-bucket")

	var record types.FeedbackRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "plan a trip to Lisbon", record.Query)
	assert.Equal(t, "Atlas v2", record.LLM)
	assert.Equal(t, 4, record.UserRating)
	assert.Equal(t, "loved it", record.UserFeedback)
	assert.Equal(t, "log_"+record.ID+"_json", key)

	// The historical key casing is part of the record contract.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "LLM")
	assert.Contains(t, raw, "user_query")
}

func TestLogGenerationWrapsUploadFailure(t *testing.T) {
	store := newMemBlobStore()
	store.failPut = true
	il := NewInteractionLogger(store, "gen-bucket", "fb-bucket", discardLogger())

	err := il.LogGeneration(context.Background(), "q", "Atlas v2", buildTestItinerary(1, 1))
	var storageErr *types.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "gen-bucket", storageErr.Container)
}
