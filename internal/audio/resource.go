// Package audio provides locally addressable handles for generated audio and
// helpers to describe the clips they hold.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const urlPrefix = "blob:tts-studio/"

var (
	// ErrRevoked is returned when reading a resource after it was revoked.
	ErrRevoked = errors.New("audio resource revoked")
	// ErrNotFound is returned when a URL does not name a live resource.
	ErrNotFound = errors.New("audio resource not found")
)

// Resource is a revocable handle to one generated clip.
type Resource struct {
	url         string
	contentType string
	createdAt   time.Time

	mu      sync.RWMutex
	data    []byte
	revoked bool
}

// URL returns the handle's local address.
func (r *Resource) URL() string {
	return r.url
}

// ContentType returns the MIME type reported by the TTS service.
func (r *Resource) ContentType() string {
	return r.contentType
}

// CreatedAt returns when the handle was created.
func (r *Resource) CreatedAt() time.Time {
	return r.createdAt
}

// Bytes returns the clip contents.
func (r *Resource) Bytes() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.revoked {
		return nil, fmt.Errorf("%w: %s", ErrRevoked, r.url)
	}

	return r.data, nil
}

// Size returns the clip length in bytes, zero once revoked.
func (r *Resource) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data)
}

// Revoked reports whether the handle was released.
func (r *Resource) Revoked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.revoked
}

func (r *Resource) revoke() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revoked = true
	r.data = nil
}

// Registry hands out resource URLs and keeps the live ones addressable.
type Registry struct {
	mu        sync.Mutex
	resources map[string]*Resource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]*Resource)}
}

// Create wraps data in a new resource. The registry keeps its own copy.
func (g *Registry) Create(data []byte, contentType string) *Resource {
	owned := make([]byte, len(data))
	copy(owned, data)

	resource := &Resource{
		url:         urlPrefix + uuid.NewString(),
		contentType: contentType,
		createdAt:   time.Now(),
		data:        owned,
	}

	g.mu.Lock()
	g.resources[resource.url] = resource
	g.mu.Unlock()

	return resource
}

// Lookup returns the live resource for url.
func (g *Registry) Lookup(url string) (*Resource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	resource, ok := g.resources[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	return resource, nil
}

// Revoke releases the resource for url. Revoking an unknown URL is a no-op.
func (g *Registry) Revoke(url string) {
	g.mu.Lock()
	resource, ok := g.resources[url]
	delete(g.resources, url)
	g.mu.Unlock()

	if ok {
		resource.revoke()
	}
}

// Len returns the number of live resources.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.resources)
}
