package services

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockFileStore is an in-memory FileStore for testing
type MockFileStore struct {
	files        map[string][]byte
	contentTypes map[string]string
	mu           sync.RWMutex
}

// NewMockFileStore creates a new mock file store
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{
		files:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Save stores the body in memory
func (m *MockFileStore) Save(ctx context.Context, name string, body io.Reader, contentType string) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.files[name] = content
	m.contentTypes[name] = contentType
	m.mu.Unlock()

	return nil
}

// Locate returns a fake presigned URL for a stored file
func (m *MockFileStore) Locate(ctx context.Context, name string) (StoredFile, error) {
	m.mu.RLock()
	_, exists := m.files[name]
	m.mu.RUnlock()

	if !exists {
		return StoredFile{}, ErrFileNotFound
	}

	return StoredFile{
		Name: name,
		URL:  fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key(name)),
	}, nil
}

// Delete removes a file from memory
func (m *MockFileStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.files, name)
	delete(m.contentTypes, name)
	m.mu.Unlock()
	return nil
}

// Content returns the stored bytes of name (for testing assertions)
func (m *MockFileStore) Content(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	return content, ok
}

// ContentType returns the content type name was saved with
func (m *MockFileStore) ContentType(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentTypes[name]
}

// Len returns the number of stored files
func (m *MockFileStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
