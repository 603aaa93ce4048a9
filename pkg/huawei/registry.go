package huawei

import "sync"

// Registry shares one Client per client ID. The zero value is not usable;
// create registries with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	opts    options
	clients map[string]*Client
}

// NewRegistry returns an empty registry. Every client it creates is
// configured with opts.
func NewRegistry(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		opts:    o,
		clients: make(map[string]*Client),
	}
}

// Get returns the client registered for creds.ClientID, creating it on first
// use. A registered client is returned as is, even when creds.ClientSecret
// differs from the secret it was created with.
func (r *Registry) Get(creds Credentials) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[creds.ClientID]; ok {
		return client
	}

	client := newClient(creds, r.opts)
	r.clients[creds.ClientID] = client
	return client
}

// Remove drops the client for clientID and reports whether one was registered.
func (r *Registry) Remove(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[clientID]; !ok {
		return false
	}
	delete(r.clients, clientID)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
