package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bostonResponse = `Here is your itinerary:
{
  "Name": "Boston Exploration",
  "description": "A 3-day immersive experience in the heart of Boston.",
  "budget": "$600",
  "data": [
    {
      "day": 1,
      "day_description": "Historical Exploration",
      "places": [
        {"name": "Freedom Trail", "description": "A 2.5-mile-long path through downtown Boston.", "time_to_visit": "9:00 - 11:00", "budget": "$0"},
        {"name": "USS Constitution Museum", "description": "History of the world's oldest commissioned warship afloat.", "time_to_visit": "11:30 - 13:00", "budget": "$10"},
        {"name": "Faneuil Hall Marketplace", "description": "A historic market complex offering shopping and dining.", "time_to_visit": "14:00 - 17:00", "budget": "$50"}
      ]
    },
    {
      "day": 2,
      "day_description": "Urban Exploration",
      "places": [
        {"name": "Boston Public Garden", "description": "A serene landscape with the famous Swan Boats.", "time_to_visit": "9:00 - 10:30", "budget": "$5"},
        {"name": "Newbury Street", "description": "Boston's premier shopping boulevard.", "time_to_visit": "11:00 - 14:00", "budget": "$100"},
        {"name": "Skywalk Observatory", "description": "Panoramic views of the Boston skyline.", "time_to_visit": "15:00 - 17:00", "budget": "$20"}
      ]
    },
    {
      "day": 3,
      "day_description": "Artistic Getaway",
      "places": [
        {"name": "Museum of Fine Arts", "description": "One of the most comprehensive art museums in the world.", "time_to_visit": "9:00 - 12:00", "budget": "$25"},
        {"name": "Isabella Stewart Gardner Museum", "description": "Significant European, Asian, and American art collections.", "time_to_visit": "12:30 - 14:30", "budget": "$15"},
        {"name": "Boston Symphony Orchestra", "description": "A performance at one of the country's premier orchestras.", "time_to_visit": "16:00 - 18:00", "budget": "$75"}
      ]
    }
  ]
}
Enjoy your trip!`

type fakeRecommender struct {
	names []string
	err   error
	calls int
}

func (f *fakeRecommender) Recommend(ctx context.Context, destination string) ([]string, error) {
	f.calls++
	return f.names, f.err
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []types.LlmInteraction
	err   error
}

func (f *fakeRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, interaction)
	return nil
}

type serviceFixture struct {
	service     *ServiceImpl
	store       *memBlobStore
	repo        *fakeRepo
	recommender *fakeRecommender
}

func newServiceFixture(completions CompletionClient) *serviceFixture {
	logger := discardLogger()
	store := newMemBlobStore()
	repo := &fakeRepo{}
	recommender := &fakeRecommender{names: []string{"Union Oyster House", "Neptune Oyster"}}

	service := NewServiceImpl(
		completions,
		NewExtractor(completions, logger),
		NewEnricher(&fakePlacesClient{}, time.Second, logger),
		recommender,
		NewInteractionLogger(store, "gen-bucket", "fb-bucket", logger),
		repo,
		time.Hour,
		logger,
	)
	return &serviceFixture{service: service, store: store, repo: repo, recommender: recommender}
}

func bostonRequest() types.GenerationRequest {
	return types.GenerationRequest{
		LLM:           "Atlas v2",
		Destination:   "Boston",
		Budget:        "600",
		ArrivalDate:   "Oct 20th",
		DepartureDate: "Oct 22nd",
		StartTime:     "9 am",
		EndTime:       "8 pm",
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	var gotSystem, gotUser string
	var gotTemp float32
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		gotSystem, gotUser, gotTemp = system, user, temperature
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.SessionID)

	// The planner prompt carries the system instructions, the trip
	// parameters and the recommended restaurants.
	assert.Contains(t, gotSystem, "AI itinerary planner")
	assert.Contains(t, gotUser, "Plan a trip to Boston from Oct 20th to Oct 22nd")
	assert.Contains(t, gotUser, "Union Oyster House")
	assert.InDelta(t, 0.9, float64(gotTemp), 0.001)

	doc := result.Itinerary
	require.NotNil(t, doc)
	assert.Equal(t, "Boston Exploration", doc.Name)
	require.Len(t, doc.Days, 3)
	for _, day := range doc.Days {
		require.Len(t, day.Places, 3)
		for _, place := range day.Places {
			assert.Equal(t, "1 Main St", place.Address)
			assert.NotEmpty(t, place.PhotoURL)
		}
	}

	// Raw interaction persisted with the full prompt template.
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, "Atlas v2", f.repo.saved[0].ModelUsed)
	assert.Contains(t, f.repo.saved[0].Prompt, "Structure the itinerary as follows")
	assert.Equal(t, bostonResponse, f.repo.saved[0].ResponseText)

	// Generation record uploaded with the short query, not the template.
	_, data := f.store.single(t, "gen-bucket")
	var record types.GenerationRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "Atlas v2", record.LLM)
	assert.Contains(t, record.Query, "Plan a trip to Boston")
	assert.NotContains(t, record.Query, "Structure the itinerary as follows")
}

func TestGenerateUnsupportedModel(t *testing.T) {
	f := newServiceFixture(noRepair(t))

	req := bostonRequest()
	req.LLM = "Atlas v1"
	_, err := f.service.Generate(context.Background(), req)
	require.ErrorIs(t, err, types.ErrUnsupportedModel)
	assert.Zero(t, f.recommender.calls)
}

func TestGenerateRestaurantFailureIsNonFatal(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)
	f.recommender.err = errors.New("yelp is down")
	f.recommender.names = nil

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.Itinerary)
}

func TestGenerateRepositoryFailureIsNonFatal(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)
	f.repo.err = errors.New("database unavailable")

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.Itinerary)
}

func TestGenerateUploadFailureIsNonFatal(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)
	f.store.failPut = true

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.Itinerary)
}

func TestGenerateCompletionFailure(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return "", errors.New("model overloaded")
	})
	f := newServiceFixture(completions)

	_, err := f.service.Generate(context.Background(), bostonRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner completion failed")
}

func TestGenerateExtractionFailure(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return "I am sorry, I cannot plan this trip.", nil
	})
	f := newServiceFixture(completions)

	_, err := f.service.Generate(context.Background(), bostonRequest())
	var extractionErr *types.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, types.NoJSONFound, extractionErr.Reason)
}

func TestSubmitFeedbackRoundTrip(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)

	err = f.service.SubmitFeedback(context.Background(), result.SessionID, types.FeedbackRequest{
		UserRating:   5,
		UserFeedback: "perfect weekend",
	})
	require.NoError(t, err)

	_, data := f.store.single(t, "fb-bucket")
	var record types.FeedbackRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "Atlas v2", record.LLM)
	assert.Equal(t, 5, record.UserRating)
	assert.Equal(t, "perfect weekend", record.UserFeedback)
	assert.Contains(t, record.Query, "Plan a trip to Boston")
	require.NotNil(t, record.Itinerary)
	assert.Equal(t, "Boston Exploration", record.Itinerary.Name)
}

func TestSubmitFeedbackUnknownSession(t *testing.T) {
	f := newServiceFixture(noRepair(t))

	err := f.service.SubmitFeedback(context.Background(), uuid.New(), types.FeedbackRequest{UserRating: 3})
	require.ErrorIs(t, err, types.ErrNoPriorGeneration)
}

func TestSubmitFeedbackExpiredSession(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)

	f.service.mu.Lock()
	f.service.sessions[result.SessionID].createdAt = time.Now().Add(-2 * time.Hour)
	f.service.mu.Unlock()

	err = f.service.SubmitFeedback(context.Background(), result.SessionID, types.FeedbackRequest{UserRating: 3})
	require.ErrorIs(t, err, types.ErrNoPriorGeneration)
}

func TestSubmitFeedbackStorageFailure(t *testing.T) {
	completions := completionFunc(func(ctx context.Context, system, user string, temperature float32) (string, error) {
		return bostonResponse, nil
	})
	f := newServiceFixture(completions)

	result, err := f.service.Generate(context.Background(), bostonRequest())
	require.NoError(t, err)

	f.store.failPut = true
	err = f.service.SubmitFeedback(context.Background(), result.SessionID, types.FeedbackRequest{UserRating: 1})
	var storageErr *types.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "fb-bucket", storageErr.Container)
}
