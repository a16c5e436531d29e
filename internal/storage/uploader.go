package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Object identifies an uploaded media file.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ErrNotFound indicates the object does not exist.
var ErrNotFound = errors.New("object not found")

// Uploader is the object-storage collaborator for listing media.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

// HTTPUploader talks to the object-storage gateway over plain HTTP.
type HTTPUploader struct {
	baseURL string
	client  *http.Client
}

// NewHTTPUploader builds an uploader against the given base URL.
func NewHTTPUploader(baseURL string) *HTTPUploader {
	return &HTTPUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload streams the object to storage and returns its public location.
func (u *HTTPUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (Object, error) {
	url := u.baseURL + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return Object{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return Object{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Object{}, fmt.Errorf("storage upload failed: %s", resp.Status)
	}
	return Object{Key: key, URL: url}, nil
}

// Delete removes the object. Used as the compensating action when a media
// attach fails after upload.
func (u *HTTPUploader) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.baseURL+"/"+key, nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("storage delete failed: %s", resp.Status)
	}
	return nil
}

// MemoryUploader is an in-memory fake for tests.
type MemoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryUploader builds the fake.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte)}
}

// Upload stores the object in memory.
func (u *MemoryUploader) Upload(_ context.Context, key, _ string, body io.Reader) (Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return Object{}, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return Object{Key: key, URL: "mem://" + key}, nil
}

// Delete removes the object from memory.
func (u *MemoryUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[key]; !ok {
		return ErrNotFound
	}
	delete(u.objects, key)
	return nil
}

// Has reports whether the object is stored. Test helper.
func (u *MemoryUploader) Has(key string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.objects[key]
	return ok
}

// Count returns the number of stored objects. Test helper.
func (u *MemoryUploader) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.objects)
}
