package docstore

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// memoryStore is an in-process Store used in dev mode and tests
type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory Store
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string]json.RawMessage)}
}

func (s *memoryStore) Get(_ context.Context, path string, out interface{}) error {
	s.mu.RLock()
	data, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *memoryStore) Set(_ context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[path] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Create(_ context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[path]; exists {
		return ErrPathExists
	}
	s.docs[path] = data
	return nil
}

func (s *memoryStore) Update(_ context.Context, path string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return err
	}
	for k, v := range partial {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	s.docs[path] = out
	return nil
}

func (s *memoryStore) List(_ context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := strings.TrimSuffix(path, "/") + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	children := make(map[string]json.RawMessage)
	for p, data := range s.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		children[rest] = data
	}
	return children, nil
}

func (s *memoryStore) ListAll(_ context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := strings.TrimSuffix(path, "/") + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]json.RawMessage)
	for p, data := range s.docs {
		if strings.HasPrefix(p, prefix) {
			all[strings.TrimPrefix(p, prefix)] = data
		}
	}
	return all, nil
}

func (s *memoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
	return nil
}
