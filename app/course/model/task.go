package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	CourseID     primitive.ObjectID   `bson:"courseId" json:"courseId"`
	Title        string               `bson:"title" json:"title"`
	Content      string               `bson:"content,omitempty" json:"content"`
	StartsAt     *time.Time           `bson:"startsAt,omitempty" json:"startsAt"`
	EndsAt       *time.Time           `bson:"endsAt,omitempty" json:"endsAt"`
	Requirements []primitive.ObjectID `bson:"requirements" json:"requirements"`
}

func (t Task) Window() Window {
	return Window{StartsAt: t.StartsAt, EndsAt: t.EndsAt}
}

// Window is a task's active interval. A nil end is open: nil StartsAt means
// "since forever", nil EndsAt means "never closes". Both boundaries are
// inclusive.
type Window struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

func (w Window) Contains(ts time.Time) bool {
	if w.StartsAt != nil && ts.Before(*w.StartsAt) {
		return false
	}
	if w.EndsAt != nil && ts.After(*w.EndsAt) {
		return false
	}
	return true
}

func (w Window) Equal(o Window) bool {
	return timeEqual(w.StartsAt, o.StartsAt) && timeEqual(w.EndsAt, o.EndsAt)
}

// Intersect clamps w by the non-nil bounds of o.
func (w Window) Intersect(o Window) Window {
	out := w
	if o.StartsAt != nil && (out.StartsAt == nil || o.StartsAt.After(*out.StartsAt)) {
		out.StartsAt = o.StartsAt
	}
	if o.EndsAt != nil && (out.EndsAt == nil || o.EndsAt.Before(*out.EndsAt)) {
		out.EndsAt = o.EndsAt
	}
	return out
}

// WindowDiff classifies a window edit. Shrunk wins over growth: a window
// that shrank on one side and grew on the other is treated as a shrink, so
// progress gathered from now-excluded history is never kept by mistake.
type WindowDiff struct {
	Shrunk    bool
	GrewStart *Window
	GrewEnd   *Window
}

func (d WindowDiff) Changed() bool {
	return d.Shrunk || d.GrewStart != nil || d.GrewEnd != nil
}

func DiffWindow(old, new Window) WindowDiff {
	if startAfter(new.StartsAt, old.StartsAt) || endBefore(new.EndsAt, old.EndsAt) {
		return WindowDiff{Shrunk: true}
	}
	var d WindowDiff
	if startBefore(new.StartsAt, old.StartsAt) {
		d.GrewStart = &Window{StartsAt: new.StartsAt, EndsAt: old.StartsAt}
	}
	if endAfter(new.EndsAt, old.EndsAt) {
		d.GrewEnd = &Window{StartsAt: old.EndsAt, EndsAt: new.EndsAt}
	}
	return d
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// nil start = negative infinity
func startAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

func startBefore(a, b *time.Time) bool {
	return startAfter(b, a)
}

// nil end = positive infinity
func endBefore(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

func endAfter(a, b *time.Time) bool {
	return endBefore(b, a)
}
