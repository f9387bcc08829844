package journey

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/HendryAvila/emotionwell/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockKV is a testify mock of kv.Store for failure paths.
type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockKV) Close() error {
	return m.Called().Error(0)
}

func newMemRepo(t *testing.T) (*Repository, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewRepository(store, "", nil), store
}

// --- LoadAll ---

func TestRepository_LoadAll_MissingKeyIsEmpty(t *testing.T) {
	repo, _ := newMemRepo(t)
	journeys, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, journeys)
	assert.Empty(t, journeys)
}

func TestRepository_LoadAll_MalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"x"}`, `"string"`, "null"} {
		repo, store := newMemRepo(t)
		require.NoError(t, store.Set(ctx, StorageKey, []byte(raw)))

		journeys, err := repo.LoadAll(ctx)
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, journeys, "input %q", raw)
	}
}

func TestRepository_LoadAll_BackendErrorPropagates(t *testing.T) {
	m := new(mockKV)
	m.On("Get", mock.Anything, StorageKey).Return(nil, errors.New("disk on fire"))

	repo := NewRepository(m, "", nil)
	_, err := repo.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	m.AssertExpectations(t)
}

// --- SaveAll ---

func TestRepository_SaveAll_OverwritesCollection(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMemRepo(t)

	require.NoError(t, repo.SaveAll(ctx, []Journey{*New("a", "a"), *New("b", "b")}))
	require.NoError(t, repo.SaveAll(ctx, []Journey{*New("c", "c")}))

	journeys, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, "c", journeys[0].ProductName)
}

func TestRepository_SaveAll_NilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	repo, store := newMemRepo(t)
	require.NoError(t, repo.SaveAll(ctx, nil))

	raw, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestRepository_SaveAll_SetErrorPropagates(t *testing.T) {
	m := new(mockKV)
	m.On("Set", mock.Anything, "custom", mock.Anything).Return(errors.New("read-only"))

	repo := NewRepository(m, "custom", nil)
	err := repo.SaveAll(context.Background(), []Journey{*New("p", "c")})
	require.Error(t, err)
	m.AssertExpectations(t)
}

// --- Upsert / Remove / Get ---

func TestRepository_Upsert_AppendsThenReplaces(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMemRepo(t)

	first := New("Phone", "Battery swelled")
	second := New("Desk", "Wobbly")
	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, second))

	updated := CompleteRound(first, uniformResponses(4), "round one")
	require.NoError(t, repo.Upsert(ctx, updated))

	journeys, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, journeys, 2)
	assert.Equal(t, first.ID, journeys[0].ID, "replacement keeps insertion order")
	assert.Equal(t, 2, journeys[0].CurrentSessionNumber)
	assert.Len(t, journeys[0].SessionHistory, 1)
	assert.Equal(t, second.ID, journeys[1].ID)
}

func TestRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMemRepo(t)
	a, b, c := New("a", "a"), New("b", "b"), New("c", "c")
	require.NoError(t, repo.SaveAll(ctx, []Journey{*a, *b, *c}))

	require.NoError(t, repo.Remove(ctx, b.ID))
	journeys, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, journeys, 2)
	assert.Equal(t, a.ID, journeys[0].ID)
	assert.Equal(t, c.ID, journeys[1].ID)

	require.NoError(t, repo.Remove(ctx, "unknown"))
	journeys, _ = repo.LoadAll(ctx)
	assert.Len(t, journeys, 2)
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMemRepo(t)
	j := New("Chair", "Squeaks")
	require.NoError(t, repo.Upsert(ctx, j))

	got, err := repo.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chair", got.ProductName)

	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrJourneyNotFound)
}

// --- Stored format ---

func TestRepository_RoundTripPreservesHistory(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMemRepo(t)

	j := New("Vacuum", "Lost suction")
	j = CompleteRound(j, uniformResponses(5), "first round text")
	j = CompleteRound(j, uniformResponses(3), "second round text")
	require.NoError(t, repo.Upsert(ctx, j))

	got, err := repo.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, got.SessionHistory, 2)
	for i := range j.SessionHistory {
		assert.Equal(t, j.SessionHistory[i].SessionNumber, got.SessionHistory[i].SessionNumber)
		assert.Equal(t, j.SessionHistory[i].SurveyResponses, got.SessionHistory[i].SurveyResponses)
		assert.Equal(t, j.SessionHistory[i].ExpressiveWriting, got.SessionHistory[i].ExpressiveWriting)
		assert.True(t, j.SessionHistory[i].Date.Equal(got.SessionHistory[i].Date))
	}
	require.NotNil(t, got.NextSessionDate)
	assert.True(t, j.NextSessionDate.Equal(*got.NextSessionDate))
}

func TestRepository_StoredFieldNames(t *testing.T) {
	ctx := context.Background()
	repo, store := newMemRepo(t)
	j := CompleteRound(New("Lamp", "Flickers"), uniformResponses(5), "text")
	require.NoError(t, repo.Upsert(ctx, j))

	raw, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	for _, field := range []string{"id", "productName", "reviewComment", "angerScore",
		"currentSessionNumber", "completed", "sessionHistory", "nextSessionDate"} {
		assert.Contains(t, decoded[0], field)
	}

	history := decoded[0]["sessionHistory"].([]any)[0].(map[string]any)
	date, ok := history["date"].(string)
	require.True(t, ok, "dates are stored as strings")
	_, err = time.Parse(time.RFC3339, date)
	assert.NoError(t, err, "dates are ISO-8601")

	response := history["surveyResponses"].([]any)[0].(map[string]any)
	for _, field := range []string{"questionId", "question", "response", "type"} {
		assert.Contains(t, response, field)
	}
}

func TestRepository_LoadsLegacyPayload(t *testing.T) {
	ctx := context.Background()
	repo, store := newMemRepo(t)
	legacy := `[{"id":"1718000000000","productName":"Toaster","reviewComment":"Burnt",` +
		`"angerScore":3.4,"currentSessionNumber":2,"completed":false,` +
		`"sessionHistory":[{"sessionNumber":1,"date":"2024-06-10T08:00:00.000Z","angerScore":3.4,` +
		`"surveyResponses":[{"questionId":2,"question":"How angry?","response":4,"type":"emotional"}],` +
		`"expressiveWriting":"so burnt"}],"nextSessionDate":"2024-06-17T08:00:00.000Z"}]`
	require.NoError(t, store.Set(ctx, StorageKey, []byte(legacy)))

	journeys, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	j := journeys[0]
	assert.Equal(t, "Toaster", j.ProductName)
	assert.Equal(t, survey.CategoryEmotional, j.SessionHistory[0].SurveyResponses[0].Category)
	assert.Equal(t, 4, j.SessionHistory[0].SurveyResponses[0].Value)
	assert.Equal(t, 17, j.NextSessionDate.Day())
}

func TestRepository_LoadAll_WarnsOnUnknownCategory(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	store := kv.NewMemoryStore()
	repo := NewRepository(store, "", zap.New(core).Sugar())

	payload := `[{"id":"a","productName":"Fan","reviewComment":"Rattles","angerScore":3,` +
		`"currentSessionNumber":2,"completed":false,"sessionHistory":[{"sessionNumber":1,` +
		`"date":"2024-06-10T08:00:00Z","angerScore":3,"surveyResponses":[` +
		`{"questionId":1,"question":"q","response":3,"type":"behavioral"}],"expressiveWriting":""}]}]`
	require.NoError(t, store.Set(ctx, StorageKey, []byte(payload)))

	journeys, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, journeys, 1, "the journey is still loaded")
	assert.Equal(t, 1, logs.FilterMessage("stored response is ignored by scoring").Len())
}
