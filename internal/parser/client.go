// Package parser converts raw command help text into structured docs using
// a language model. Clients are interchangeable: a local Ollama instance,
// the OpenAI API, or any mock implementation for testing.
package parser

import "context"

// Client is the capability interface for language model backends. The
// crawler depends only on this interface; concrete variants are selected
// at construction time.
type Client interface {
	// Complete produces a completion for the given system and user prompts.
	// Implementations are expected to return the model's raw text, which
	// for parsing prompts should be a single JSON object.
	Complete(ctx context.Context, system, user string) (string, error)

	// Model returns the model identifier, used as a cache key component.
	Model() string

	// Name returns a human-readable name for the client.
	Name() string

	// Close releases any resources held by the client.
	Close() error
}

// Registry manages available clients and allows lookup by name.
type Registry struct {
	clients     map[string]Client
	defaultName string
}

// NewRegistry creates an empty client registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
	}
}

// Register adds a client to the registry.
func (r *Registry) Register(name string, client Client) {
	r.clients[name] = client
	if r.defaultName == "" {
		r.defaultName = name
	}
}

// SetDefault sets which client to use when none is specified.
func (r *Registry) SetDefault(name string) {
	r.defaultName = name
}

// Get returns a client by name, or the default if name is empty.
func (r *Registry) Get(name string) (Client, bool) {
	if name == "" {
		name = r.defaultName
	}
	c, ok := r.clients[name]
	return c, ok
}

// Close releases all client resources.
func (r *Registry) Close() error {
	for _, c := range r.clients {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// List returns names of all registered clients.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}
