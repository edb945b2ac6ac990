package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/Egxr41k/volosmeister-backend/internal/storage"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

// fileEntry stores an uploaded file in memory.
type fileEntry struct {
	Key         string
	ContentType string
	Data        []byte
	URL         string
}

// Storage implements storage.Storage using an in-memory map. It keeps the
// full file bytes so bundle export can read assets back out.
type Storage struct {
	mu      sync.RWMutex
	files   map[string]*fileEntry
	baseURL string
}

// New creates a new in-memory storage instance.
func New(baseURL string) *Storage {
	return &Storage{
		files:   make(map[string]*fileEntry),
		baseURL: baseURL,
	}
}

// Upload stores the file bytes in memory and returns the generated URL.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("%s/assets/%s", s.baseURL, input.Key)

	s.files[input.Key] = &fileEntry{
		Key:         input.Key,
		ContentType: input.ContentType,
		Data:        data,
		URL:         url,
	}

	return &storage.UploadResult{
		Key: input.Key,
		URL: url,
	}, nil
}

// Get returns the stored bytes for the given key.
func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.files[key]
	if !exists {
		return nil, apperrors.NotFound("asset", key)
	}

	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	return data, nil
}

// Exists reports whether a file with the given key is stored.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.files[key]
	return exists, nil
}

// List returns all stored keys in sorted order.
func (s *Storage) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.files))
	for key := range s.files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a file from memory.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[key]; !exists {
		return apperrors.NotFound("asset", key)
	}

	delete(s.files, key)
	return nil
}

// GetURL returns the URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.files[key]
	if !exists {
		return "", apperrors.NotFound("asset", key)
	}

	return entry.URL, nil
}
