// Package learning computes feedback analytics over rated assistant
// responses and renders the learning context injected into agent prompts.
package learning

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kolapsis/aide/internal/kv"
)

const collectionKey = "rated-messages"

// Message is one assistant response with user feedback attached.
type Message struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId,omitempty"`
	Content   string    `json:"content"`
	Rating    float64   `json:"rating,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageStore persists rated messages as one whole-collection value in
// the key-value store.
type MessageStore struct {
	kv kv.Store
}

// NewMessageStore creates a MessageStore over the given key-value store.
func NewMessageStore(kvs kv.Store) *MessageStore {
	return &MessageStore{kv: kvs}
}

// List returns messages that carry a rating, in stored order. A
// malformed collection degrades to empty, logged.
func (s *MessageStore) List() []Message {
	data, ok, err := s.kv.Get(collectionKey)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("reading rated messages collection", "error", err)
		}
		return nil
	}

	var all []Message
	if err := json.Unmarshal(data, &all); err != nil {
		slog.Warn("malformed rated messages collection, treating as empty", "error", err)
		return nil
	}

	var rated []Message
	for _, m := range all {
		if m.Rating != 0 {
			rated = append(rated, m)
		}
	}
	return rated
}

// Save upserts a message into the collection.
func (s *MessageStore) Save(m Message) error {
	data, ok, err := s.kv.Get(collectionKey)
	if err != nil {
		return fmt.Errorf("reading rated messages collection: %w", err)
	}

	var all []Message
	if ok {
		if err := json.Unmarshal(data, &all); err != nil {
			slog.Warn("malformed rated messages collection, treating as empty", "error", err)
			all = nil
		}
	}

	replaced := false
	for i := range all {
		if all[i].ID == m.ID {
			all[i] = m
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, m)
	}

	encoded, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encoding rated messages: %w", err)
	}
	if err := s.kv.Put(collectionKey, encoded); err != nil {
		return fmt.Errorf("writing rated messages collection: %w", err)
	}
	return nil
}
