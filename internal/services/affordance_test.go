package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAffordanceFadesInAndOut(t *testing.T) {
	a := NewAffordance(200 * time.Millisecond)
	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, a.Opacity(t0))

	assert.True(t, a.Set(true, t0))
	assert.False(t, a.Set(true, t0), "setting the same visibility is a no-op")
	assert.True(t, a.Visible())
	assert.InDelta(t, 0.0, a.Opacity(t0), 1e-9)
	assert.InDelta(t, 0.5, a.Opacity(t0.Add(100*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1.0, a.Opacity(t0.Add(200*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1.0, a.Opacity(t0.Add(time.Second)), 1e-9)

	t1 := t0.Add(time.Second)
	a.Set(false, t1)
	assert.False(t, a.Visible())
	assert.InDelta(t, 0.75, a.Opacity(t1.Add(50*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.0, a.Opacity(t1.Add(200*time.Millisecond)), 1e-9)
}

func TestAffordanceReversesFromCurrentOpacity(t *testing.T) {
	a := NewAffordance(200 * time.Millisecond)
	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	a.Set(true, t0)
	mid := t0.Add(100 * time.Millisecond)
	a.Set(false, mid)

	assert.InDelta(t, 0.5, a.Opacity(mid), 1e-9)
	assert.InDelta(t, 0.25, a.Opacity(mid.Add(100*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.0, a.Opacity(mid.Add(200*time.Millisecond)), 1e-9)
}
