package backend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/internal/backend"
)

func TestSessions(t *testing.T) {
	t.Parallel()
	c := newClock()
	sessions := backend.NewSessions(time.Hour, 0, backend.WithSessionsClock(c.Now))
	t.Cleanup(sessions.Close)

	a := sessions.Create("1")
	b := sessions.Create("2")
	assert.NotEqual(t, a.Token, b.Token)
	assert.Equal(t, time.Hour, sessions.TTL())

	got, err := sessions.Get(a.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", got.AccountID)

	_, err = sessions.Get("unknown")
	assert.ErrorIs(t, err, backend.ErrSessionNotFound)

	sessions.Delete(b.Token)
	_, err = sessions.Get(b.Token)
	assert.ErrorIs(t, err, backend.ErrSessionNotFound)

	c.Advance(time.Hour)
	_, err = sessions.Get(a.Token)
	assert.ErrorIs(t, err, backend.ErrSessionExpired)
	assert.Zero(t, sessions.Len(), "expired session is evicted on read")
}

func TestSessions_Cleanup(t *testing.T) {
	t.Parallel()
	c := newClock()
	sessions := backend.NewSessions(time.Minute, 0, backend.WithSessionsClock(c.Now))
	t.Cleanup(sessions.Close)

	sessions.Create("1")
	c.Advance(30 * time.Second)
	sessions.Create("2")
	c.Advance(45 * time.Second)

	assert.Equal(t, 1, sessions.Cleanup())
	assert.Equal(t, 1, sessions.Len())
}

func TestSessions_CloseIsIdempotent(t *testing.T) {
	t.Parallel()
	sessions := backend.NewSessions(time.Minute, time.Millisecond)
	sessions.Close()
	assert.NotPanics(t, sessions.Close)
}
