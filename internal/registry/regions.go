package registry

import "sync"

// Regions is a process-wide directory of named shared structures. The
// first caller of a name allocates it, everyone else gets the same value.
type Regions struct {
	mu      sync.Mutex
	regions map[string]any
}

func NewRegions() *Regions {
	return &Regions{regions: make(map[string]any)}
}

// AllocateOrLookup returns the region called name. alloc builds and
// initializes it, and runs under the directory lock on the first lookup only.
func (r *Regions) AllocateOrLookup(name string, alloc func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.regions[name]; found {
		return v
	}

	v := alloc()
	r.regions[name] = v
	return v
}
