package ai

import (
	"context"
	"sort"
	"sync"
)

// generateFunc calls one chat-completion platform and returns the raw
// model output.
type generateFunc func(ctx context.Context, c *Client, prompt string) (string, error)

// platformRegistry maps platform names to their generate functions.
type platformRegistry struct {
	mu        sync.RWMutex
	platforms map[string]generateFunc
}

func newPlatformRegistry() *platformRegistry {
	return &platformRegistry{
		platforms: make(map[string]generateFunc),
	}
}

// register adds a platform to the registry.
func (r *platformRegistry) register(name string, fn generateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.platforms[name] = fn
}

// get returns a platform's generate function by name.
func (r *platformRegistry) get(name string) (generateFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.platforms[name]
	return fn, ok
}

// names returns the registered platform names, sorted.
func (r *platformRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultPlatforms() *platformRegistry {
	r := newPlatformRegistry()
	r.register(PlatformOpenAI, generateOpenAI)
	r.register(PlatformAzure, generateAzure)
	r.register(PlatformDeepSeek, generateDeepSeek)
	return r
}
