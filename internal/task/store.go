package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskd/internal/kv"
	"taskd/internal/model"
)

// DefaultKey is the storage key the whole collection lives under.
const DefaultKey = "TODOS"

// Store persists the entire ordered collection as one JSON array under a
// single key. Every Save overwrites the previous value; there is no
// per-record persistence.
type Store struct {
	kv  kv.Store
	key string
}

func NewStore(s kv.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: s, key: key}
}

// storedTask pins the wire shape. Required fields are pointers so a
// missing key is distinguishable from a zero value when decoding.
type storedTask struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	CreatedAt   *string `json:"createdAt"`
}

func (st storedTask) decode() (model.Task, error) {
	switch {
	case st.ID == nil:
		return model.Task{}, errors.New("missing id")
	case st.Title == nil:
		return model.Task{}, errors.New("missing title")
	case st.Completed == nil:
		return model.Task{}, errors.New("missing completed")
	case st.CreatedAt == nil:
		return model.Task{}, errors.New("missing createdAt")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, *st.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("malformed createdAt: %w", err)
	}
	return model.Task{
		ID:          *st.ID,
		Title:       *st.Title,
		Description: st.Description,
		Completed:   *st.Completed,
		CreatedAt:   createdAt,
	}, nil
}

func encode(t model.Task) storedTask {
	createdAt := t.CreatedAt.Format(time.RFC3339Nano)
	return storedTask{
		ID:          &t.ID,
		Title:       &t.Title,
		Description: t.Description,
		Completed:   &t.Completed,
		CreatedAt:   &createdAt,
	}
}

// Load reads the collection. An absent key is an empty collection; an
// unreadable payload comes back as *CorruptError. Backend read failures
// pass through untouched.
func (s *Store) Load(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Task{}, nil
	}

	var stored []storedTask
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, &CorruptError{Err: err}
	}
	out := make([]model.Task, 0, len(stored))
	for i, st := range stored {
		t, err := st.decode()
		if err != nil {
			return nil, &CorruptError{Err: fmt.Errorf("element %d: %w", i, err)}
		}
		out = append(out, t)
	}
	return out, nil
}

// Save overwrites the stored collection, preserving order.
func (s *Store) Save(ctx context.Context, tasks []model.Task) error {
	stored := make([]storedTask, 0, len(tasks))
	for _, t := range tasks {
		stored = append(stored, encode(t))
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return &PersistError{Err: err}
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}
