// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web builds the shared
// Deps once, calls Init(deps) on every component, and mounts each
// component's Routes() at “/”.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/formhook/internal/form"
)

// Deps carries the process-wide collaborators a component may need.
type Deps struct {
	Submitter *form.Submitter
	CSRF      *form.CSRF
	MaxMemory int64 // multipart in-memory limit
}

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", getPage)
//	r.Route("/api", func(api chi.Router) { ... })
//	return r
type Component interface {
	Name() string
	Init(Deps) error
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component with deps and mounts its
// routes on r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s: %w", c.Name(), err)
		}
		r.Mount("/", c.Routes())
	}
	return nil
}
