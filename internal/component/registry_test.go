package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name    string
	initErr error
	got     *Deps
}

func (s *stub) Name() string { return s.name }
func (s *stub) Init(d Deps) error {
	s.got = &d
	return s.initErr
}
func (s *stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/"+s.name, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return r
}

func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	saved := registry
	registry = map[string]Component{}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func TestAll_SortedByName(t *testing.T) {
	reset(t)
	Register(&stub{name: "b"})
	Register(&stub{name: "a"})

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name())
	assert.Equal(t, "b", all[1].Name())
}

func TestMount_InitsAndRoutes(t *testing.T) {
	reset(t)
	c := &stub{name: "ping"}
	Register(c)

	r := chi.NewRouter()
	require.NoError(t, Mount(r, Deps{MaxMemory: 42}))
	require.NotNil(t, c.got)
	assert.Equal(t, int64(42), c.got.MaxMemory)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMount_InitError(t *testing.T) {
	reset(t)
	boom := errors.New("boom")
	Register(&stub{name: "bad", initErr: boom})

	err := Mount(chi.NewRouter(), Deps{})
	assert.ErrorIs(t, err, boom)
}
