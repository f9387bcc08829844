package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/HendryAvila/emotionwell/internal/survey"
	"go.uber.org/zap"
)

// StorageKey is the well-known key the journey collection is stored under.
const StorageKey = "emotion_well_sessions"

// ErrJourneyNotFound is returned by Get for an unknown identifier.
var ErrJourneyNotFound = errors.New("journey not found")

// Store defines the persistence interface for the journey collection.
// Abstracted so the flow controller and tools can be tested without disk.
type Store interface {
	LoadAll(ctx context.Context) ([]Journey, error)
	SaveAll(ctx context.Context, journeys []Journey) error
	Upsert(ctx context.Context, j *Journey) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Journey, error)
}

// Repository stores the whole journey collection as one JSON array under
// a single key. Every write replaces the collection (last writer wins),
// which is safe because there is a single writer.
type Repository struct {
	kv  kv.Store
	key string
	log *zap.SugaredLogger
}

// NewRepository creates a Repository over store. An empty key selects
// StorageKey; a nil logger disables logging.
func NewRepository(store kv.Store, key string, log *zap.SugaredLogger) *Repository {
	if key == "" {
		key = StorageKey
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Repository{kv: store, key: key, log: log}
}

// LoadAll returns the stored journeys in insertion order. A missing key
// yields an empty collection. Malformed stored data also yields an empty
// collection; it is logged, never returned as an error.
func (r *Repository) LoadAll(ctx context.Context) ([]Journey, error) {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []Journey{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading journeys: %w", err)
	}

	var journeys []Journey
	if err := json.Unmarshal(data, &journeys); err != nil {
		r.log.Warnw("stored journeys are malformed, starting from an empty collection",
			"key", r.key, "bytes", len(data), "error", err)
		return []Journey{}, nil
	}
	if journeys == nil {
		journeys = []Journey{}
	}
	for i := range journeys {
		if journeys[i].SessionHistory == nil {
			journeys[i].SessionHistory = []HistoryEntry{}
		}
		r.checkCategories(&journeys[i])
	}
	return journeys, nil
}

// checkCategories logs responses whose category scoring does not know.
// They are kept as stored.
func (r *Repository) checkCategories(j *Journey) {
	for _, h := range j.SessionHistory {
		for _, resp := range h.SurveyResponses {
			if err := survey.ValidateCategory(resp.Category); err != nil {
				r.log.Warnw("stored response is ignored by scoring",
					"journey", j.ID, "round", h.SessionNumber, "question", resp.QuestionID, "error", err)
			}
		}
	}
}

// SaveAll overwrites the stored collection with journeys.
func (r *Repository) SaveAll(ctx context.Context, journeys []Journey) error {
	if journeys == nil {
		journeys = []Journey{}
	}
	data, err := json.Marshal(journeys)
	if err != nil {
		return fmt.Errorf("marshaling journeys: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving journeys: %w", err)
	}
	r.log.Debugw("journeys saved", "key", r.key, "count", len(journeys))
	return nil
}

// Upsert replaces the journey with the same ID, or appends it if absent,
// then saves the whole collection.
func (r *Repository) Upsert(ctx context.Context, j *Journey) error {
	journeys, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range journeys {
		if journeys[i].ID == j.ID {
			journeys[i] = *j.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		journeys = append(journeys, *j.Clone())
	}

	if err := r.SaveAll(ctx, journeys); err != nil {
		return err
	}
	r.log.Infow("journey stored", "id", j.ID, "round", j.CurrentSessionNumber,
		"completed", j.Completed, "inserted", !replaced)
	return nil
}

// Remove deletes the journey with the given ID and saves the rest.
// Removing an unknown ID rewrites the collection unchanged.
func (r *Repository) Remove(ctx context.Context, id string) error {
	journeys, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := journeys[:0]
	for _, j := range journeys {
		if j.ID != id {
			kept = append(kept, j)
		}
	}

	if err := r.SaveAll(ctx, kept); err != nil {
		return err
	}
	r.log.Infow("journey removed", "id", id, "remaining", len(kept))
	return nil
}

// Get returns the stored journey with the given ID.
func (r *Repository) Get(ctx context.Context, id string) (*Journey, error) {
	journeys, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range journeys {
		if journeys[i].ID == id {
			return &journeys[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrJourneyNotFound, id)
}
