package usage_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
	"github.com/dmitrymomot/zenblog/pkg/usage"
)

func TestTracker_Visitor(t *testing.T) {
	t.Parallel()
	tr := usage.NewTracker(usage.NewMemoryStore())

	t.Run("issues cookie", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		id := tr.Visitor(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, usage.VisitorCookie, cookies[0].Name)
		assert.Equal(t, id, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("reuses valid cookie", func(t *testing.T) {
		t.Parallel()
		id := uuid.NewString()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: usage.VisitorCookie, Value: id})
		rec := httptest.NewRecorder()
		assert.Equal(t, id, tr.Visitor(rec, r))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("replaces malformed cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: usage.VisitorCookie, Value: "not-a-uuid"})
		rec := httptest.NewRecorder()
		assert.NotEqual(t, "not-a-uuid", tr.Visitor(rec, r))
		assert.Len(t, rec.Result().Cookies(), 1)
	})
}

func TestTracker_Record(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := usage.NewMemoryStore()

	utc := usage.NewTracker(store, usage.WithClock(clock), usage.WithLocation(time.UTC))
	tokyo := usage.NewTracker(store, usage.WithClock(clock), usage.WithLocation(time.FixedZone("JST", 9*3600)))

	n, err := utc.Record(t.Context(), "v1", subscription.UsageAIMessages)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = tokyo.Count(t.Context(), "v1", subscription.UsageAIMessages)
	require.NoError(t, err)
	assert.Zero(t, n, "already the next day in Tokyo")

	n, _ = utc.Count(t.Context(), "v1", subscription.UsageAIMessages)
	assert.Equal(t, int64(1), n)
}
