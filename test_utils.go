package main

import (
	"context"
	"fmt"
	"sync"
)

// MockStore implements a mock version of storage.Store for testing.
type MockStore struct {
	payloads     map[string][]byte
	contentTypes map[string]string
	saveError    error
	mu           sync.Mutex
}

func NewMockStore() *MockStore {
	return &MockStore{
		payloads:     make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *MockStore) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return 0, m.saveError
	}
	m.payloads[objectName] = data
	m.contentTypes[objectName] = contentType
	return int64(len(data)), nil
}

func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Saved returns a copy of the stored payloads.
func (m *MockStore) Saved() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.payloads))
	for k, v := range m.payloads {
		out[k] = v
	}
	return out
}

// createTestHandler creates a handler with all dependencies for testing.
func createTestHandler(store *MockStore, strict bool, maxBodySize int64) *HTTPHandler {
	nameGenerator := NewSequentialNameGenerator()
	responseFormatter := NewDefaultResponseFormatter()
	dumpService := NewDefaultDumpService(store, nameGenerator, strict)
	return NewHTTPHandler(dumpService, responseFormatter, maxBodySize)
}

// SequentialNameGenerator makes stored names predictable in tests. A
// deterministic generator like this is exactly the situation where the
// accepted same-second collision risk of the production generator would bite,
// so tests never rely on two same-extension names being distinct.
type SequentialNameGenerator struct {
	mu sync.Mutex
	n  int
}

func NewSequentialNameGenerator() *SequentialNameGenerator {
	return &SequentialNameGenerator{}
}

func (g *SequentialNameGenerator) Generate(extension string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("test_%03d.%s", g.n, extension)
}
