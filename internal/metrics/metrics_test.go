package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/internal/metrics"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector_Records(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordAccess("AI chat", true)
	c.RecordAccess("AI chat", true)
	c.RecordAccess("Pro content", false)
	c.RecordUsage("searches", false)
	c.RecordRedirect("fr")
	c.RecordLogin(false)

	assert.Equal(t, 2.0, counterValue(t, reg, "zenblog_access_checks_total", map[string]string{"feature": "AI chat", "granted": "true"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "zenblog_access_checks_total", map[string]string{"feature": "Pro content", "granted": "false"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "zenblog_usage_checks_total", map[string]string{"usage_type": "searches"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "zenblog_locale_redirects_total", map[string]string{"locale": "fr"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "zenblog_logins_total", map[string]string{"result": "failure"}))
}

func TestCollector_Middleware(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/{locale}/blog/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/{locale}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/en/blog/a", "/fr/blog/b", "/de"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "zenblog_http_requests_total", map[string]string{
		"route": "/{locale}/blog/{slug}", "status": "418",
	}))
	assert.Equal(t, 1.0, counterValue(t, reg, "zenblog_http_requests_total", map[string]string{
		"route": "/{locale}", "status": "200",
	}))
}

func TestHandler(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg).RecordRedirect("ja")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `zenblog_locale_redirects_total{locale="ja"} 1`)
}
