package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrNoDefaultProvider = errors.New("no default provider configured")

	// ErrEmptyResponse indicates the provider returned no completion text.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// Provider defines the interface for chat-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete performs a single chat completion request
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a completion request
type Request struct {
	Model       string
	System      string // system prompt
	User        string // user prompt
	Temperature float64
	MaxTokens   int
}

// Response represents a completion response
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage tracks token usage
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StatusError is a non-2xx transport outcome from a provider endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Code, e.Body)
}

// Registry manages completion providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	defaultP  string
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// SetDefault sets the default provider
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	r.defaultP = name
	return nil
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// Default returns the default provider, falling back to any registered one.
func (r *Registry) Default() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaultP != "" {
		if p, ok := r.providers[r.defaultP]; ok {
			return p, nil
		}
	}

	for _, p := range r.providers {
		return p, nil
	}

	return nil, ErrNoDefaultProvider
}

// List returns all registered provider names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// DefaultName returns the name of the default provider
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultP
}
