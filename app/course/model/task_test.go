package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

var (
	day1 = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)
	day4 = time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC)
)

func TestWindowContains(t *testing.T) {
	w := Window{StartsAt: tp(day2), EndsAt: tp(day3)}

	assert.False(t, w.Contains(day1))
	assert.True(t, w.Contains(day2), "start boundary is inclusive")
	assert.True(t, w.Contains(day2.Add(time.Hour)))
	assert.True(t, w.Contains(day3), "end boundary is inclusive")
	assert.False(t, w.Contains(day4))
}

func TestWindowContainsOpenSides(t *testing.T) {
	assert.True(t, Window{}.Contains(day1))
	assert.True(t, Window{EndsAt: tp(day2)}.Contains(day1))
	assert.False(t, Window{EndsAt: tp(day2)}.Contains(day3))
	assert.True(t, Window{StartsAt: tp(day2)}.Contains(day4))
	assert.False(t, Window{StartsAt: tp(day2)}.Contains(day1))
}

func TestWindowIntersect(t *testing.T) {
	w := Window{StartsAt: tp(day1), EndsAt: tp(day4)}

	got := w.Intersect(Window{StartsAt: tp(day2), EndsAt: tp(day3)})
	assert.True(t, got.Equal(Window{StartsAt: tp(day2), EndsAt: tp(day3)}))

	// nil bounds of the clamp leave w alone
	got = w.Intersect(Window{})
	assert.True(t, got.Equal(w))

	// a clamp wider than w changes nothing
	got = Window{StartsAt: tp(day2), EndsAt: tp(day3)}.Intersect(w)
	assert.True(t, got.Equal(Window{StartsAt: tp(day2), EndsAt: tp(day3)}))
}

func TestDiffWindowUnchanged(t *testing.T) {
	w := Window{StartsAt: tp(day1), EndsAt: tp(day4)}
	d := DiffWindow(w, Window{StartsAt: tp(day1), EndsAt: tp(day4)})
	assert.False(t, d.Changed())
}

func TestDiffWindowGrowth(t *testing.T) {
	old := Window{StartsAt: tp(day2), EndsAt: tp(day3)}

	d := DiffWindow(old, Window{StartsAt: tp(day1), EndsAt: tp(day3)})
	require.False(t, d.Shrunk)
	require.NotNil(t, d.GrewStart)
	assert.Nil(t, d.GrewEnd)
	assert.True(t, d.GrewStart.Equal(Window{StartsAt: tp(day1), EndsAt: tp(day2)}))

	d = DiffWindow(old, Window{StartsAt: tp(day2), EndsAt: tp(day4)})
	require.False(t, d.Shrunk)
	require.NotNil(t, d.GrewEnd)
	assert.Nil(t, d.GrewStart)
	assert.True(t, d.GrewEnd.Equal(Window{StartsAt: tp(day3), EndsAt: tp(day4)}))

	d = DiffWindow(old, Window{StartsAt: tp(day1), EndsAt: tp(day4)})
	require.False(t, d.Shrunk)
	assert.NotNil(t, d.GrewStart)
	assert.NotNil(t, d.GrewEnd)
}

func TestDiffWindowGrowthToOpen(t *testing.T) {
	old := Window{StartsAt: tp(day2), EndsAt: tp(day3)}

	d := DiffWindow(old, Window{EndsAt: tp(day3)})
	require.NotNil(t, d.GrewStart)
	assert.Nil(t, d.GrewStart.StartsAt)
	require.NotNil(t, d.GrewStart.EndsAt)
	assert.True(t, d.GrewStart.EndsAt.Equal(day2))

	d = DiffWindow(old, Window{StartsAt: tp(day2)})
	require.NotNil(t, d.GrewEnd)
	require.NotNil(t, d.GrewEnd.StartsAt)
	assert.Nil(t, d.GrewEnd.EndsAt)
	assert.True(t, d.GrewEnd.StartsAt.Equal(day3))
}

func TestDiffWindowShrink(t *testing.T) {
	old := Window{StartsAt: tp(day1), EndsAt: tp(day4)}

	assert.True(t, DiffWindow(old, Window{StartsAt: tp(day2), EndsAt: tp(day4)}).Shrunk)
	assert.True(t, DiffWindow(old, Window{StartsAt: tp(day1), EndsAt: tp(day3)}).Shrunk)

	// closing a previously open side is a shrink
	open := Window{StartsAt: tp(day1)}
	assert.True(t, DiffWindow(open, Window{StartsAt: tp(day1), EndsAt: tp(day4)}).Shrunk)
}

func TestDiffWindowMixedCountsAsShrink(t *testing.T) {
	old := Window{StartsAt: tp(day2), EndsAt: tp(day3)}
	d := DiffWindow(old, Window{StartsAt: tp(day1), EndsAt: tp(day2)})
	assert.True(t, d.Shrunk)
	assert.Nil(t, d.GrewStart)
	assert.Nil(t, d.GrewEnd)
}
