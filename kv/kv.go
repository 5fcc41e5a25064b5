// Package kv is the durable key/value substrate every repository persists
// through. Two tiers exist: a SQLite-backed persistent tier that survives
// restarts, and an in-memory session tier that lives as long as the process
// (used only for legacy-data migration and tests).
package kv

import (
	"encoding/json"
	"log"
)

// Store is a synchronous string-keyed byte store. Get never fails: a missing
// key reports ok=false. Set is the only operation that can fail, and when it
// does the failure is fatal for the write (no retry is meaningful).
type Store interface {
	Get(key string) (value []byte, ok bool)
	Set(key string, value []byte) error
	Delete(key string)
}

// Memory is the session-tier store and the test substitute for the
// persistent tier. Not safe for concurrent use; the runtime model is
// single-writer.
type Memory struct {
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) {
	delete(m.data, key)
}

// ReadJSON is the parse-and-validate boundary for every stored record family.
// A missing or unparseable key degrades to the caller's fallback instead of
// propagating malformed state into business logic.
func ReadJSON[T any](s Store, key string, fallback T) T {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("kv: discarding malformed value at %q: %v", key, err)
		return fallback
	}
	return v
}

// WriteJSON serializes v into the given key. An error here means the
// substrate itself failed and the write did not commit.
func WriteJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, data)
}
