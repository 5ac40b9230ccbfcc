package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kolapsis/aide/internal/kv"
)

// ErrNotFound is returned when a task id cannot be resolved.
var ErrNotFound = errors.New("task not found")

const collectionKey = "tasks"

// Store persists tasks as one whole-collection value in the key-value
// store. Writes are read-modify-write over the full collection, so
// concurrent writers can drop each other's updates; callers that care
// must serialize.
type Store struct {
	kv kv.Store
}

// NewStore creates a task Store over the given key-value store.
func NewStore(kvs kv.Store) *Store {
	return &Store{kv: kvs}
}

// List returns all tasks in stored order. A malformed collection,
// including one with an unparsable timestamp, degrades to an empty list;
// the failure is logged but not surfaced to callers.
func (s *Store) List() []Task {
	data, ok, err := s.kv.Get(collectionKey)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("reading tasks collection", "error", err)
		}
		return nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		slog.Warn("malformed tasks collection, treating as empty", "error", err)
		return nil
	}
	return tasks
}

// Get resolves a task by id.
func (s *Store) Get(id string) (*Task, error) {
	for _, t := range s.List() {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
}

// Save upserts a task into the collection.
func (s *Store) Save(t Task) error {
	tasks := s.List()

	replaced := false
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, t)
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.kv.Put(collectionKey, data); err != nil {
		return fmt.Errorf("writing tasks collection: %w", err)
	}
	return nil
}
