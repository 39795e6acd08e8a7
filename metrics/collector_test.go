package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counter(t *testing.T) {
	c := NewCollector()
	labels := map[string]string{"a": "1", "b": "2"}

	c.IncCounter("hits", labels)
	c.AddCounter("hits", 4, map[string]string{"b": "2", "a": "1"})

	m := c.GetMetric("hits", labels)
	require.NotNil(t, m)
	assert.Equal(t, Counter, m.Type)
	assert.Equal(t, float64(5), m.Value)
	assert.Equal(t, int64(2), m.Count)
	assert.Len(t, c.Snapshot(), 1)
}

func TestCollector_Gauge(t *testing.T) {
	c := NewCollector()
	c.SetGauge("queue", 3, nil)
	c.SetGauge("queue", 1, nil)

	assert.Equal(t, float64(1), c.GetMetric("queue", nil).Value)
}

func TestCollector_HistogramBounded(t *testing.T) {
	c := NewCollector()
	for i := 0; i < historySize+20; i++ {
		c.ObserveHistogram("latency", float64(i), nil)
	}

	m := c.GetMetric("latency", nil)
	assert.Len(t, m.History, historySize)
	assert.Equal(t, float64(20), m.History[0])
	assert.Equal(t, int64(historySize+20), m.Count)
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	c := NewCollector()
	labels := map[string]string{"k": "v"}
	c.IncCounter("x", labels)
	labels["k"] = "changed"

	snap := c.Snapshot()
	snap["x{k=v}"].Labels["k"] = "mutated"

	assert.Equal(t, "v", c.GetMetric("x", map[string]string{"k": "v"}).Labels["k"])
}

func TestCollector_RecordTask(t *testing.T) {
	c := NewCollector()
	c.RecordTask("scheduler", "web.serve", nil, time.Second)
	c.RecordTask("scheduler", "web.serve", errors.New("x"), time.Second)

	ok := c.GetMetric("tasks_total", map[string]string{"kind": "scheduler", "task": "web.serve", "success": "true"})
	failed := c.GetMetric("tasks_total", map[string]string{"kind": "scheduler", "task": "web.serve", "success": "false"})
	require.NotNil(t, ok)
	require.NotNil(t, failed)
	assert.Equal(t, float64(1), ok.Value)
	assert.Equal(t, float64(1), failed.Value)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncCounter("n", nil)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, float64(50), c.GetMetric("n", nil).Value)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	c := NewCollector()
	r := chi.NewRouter()
	r.Use(Middleware(c))
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for _, path := range []string{"/users/1", "/users/2", "/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	m := c.GetMetric("http_requests_total", map[string]string{"method": "GET", "path": "/users/{id}", "status": "418"})
	require.NotNil(t, m)
	assert.Equal(t, float64(2), m.Value)

	errs := c.GetMetric("http_errors_total", map[string]string{"method": "GET", "path": "/fail"})
	require.NotNil(t, errs)
	assert.Equal(t, float64(1), errs.Value)
}
