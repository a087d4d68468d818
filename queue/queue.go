// Package queue implements the ordered play queue and its cursor semantics.
package queue

import (
	"github.com/jellysan-cli/jellysan/media"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Direction selects the advance orientation.
type Direction int

const (
	Next Direction = iota
	Previous
)

// Queue is an ordered sequence of playable items plus a cursor pointing at
// the member currently playing. The cursor invariant 0 <= cursor < len holds
// whenever the queue is non-empty; an empty queue has no meaningful cursor.
type Queue struct {
	items  []*media.Item
	cursor int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Set replaces the queue wholesale and positions the cursor, clamping
// out-of-range indices to the nearest valid value.
func (q *Queue) Set(items []*media.Item, index int) {
	q.items = items
	if len(items) == 0 {
		q.cursor = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(items) {
		index = len(items) - 1
	}
	q.cursor = index
}

// Clear resets to the empty queue. Called on session teardown.
func (q *Queue) Clear() {
	q.items = nil
	q.cursor = 0
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns the queued items in order.
func (q *Queue) Items() []*media.Item {
	return q.items
}

// Index returns the current cursor value.
func (q *Queue) Index() int {
	return q.cursor
}

// Current returns the item under the cursor.
func (q *Queue) Current() mo.Option[*media.Item] {
	if len(q.items) == 0 {
		return mo.None[*media.Item]()
	}
	return mo.Some(q.items[q.cursor])
}

// HasNext reports whether Advance(Next) would move the cursor.
func (q *Queue) HasNext() bool {
	return q.cursor+1 < len(q.items)
}

// HasPrevious reports whether Advance(Previous) would move the cursor.
func (q *Queue) HasPrevious() bool {
	return len(q.items) > 0 && q.cursor > 0
}

// Advance moves the cursor one step and returns the new current item.
// At either boundary it is a no-op and reports moved=false.
func (q *Queue) Advance(dir Direction) (item *media.Item, moved bool) {
	switch dir {
	case Next:
		if !q.HasNext() {
			return nil, false
		}
		q.cursor++
	case Previous:
		if !q.HasPrevious() {
			return nil, false
		}
		q.cursor--
	}
	return q.items[q.cursor], true
}

// Jump moves the cursor to an explicit index and returns the item there.
// Out-of-range indices are rejected, not clamped: a jump is a direct user
// intent on a concrete member.
func (q *Queue) Jump(index int) (*media.Item, bool) {
	if index < 0 || index >= len(q.items) {
		return nil, false
	}
	q.cursor = index
	return q.items[q.cursor], true
}

// Reorder moves the item at position from to position to, recomputing the
// cursor so that the member playing before the reorder stays current even
// though its numeric index changed. Equal or unresolved positions are no-ops;
// a reorder against a stale index must never corrupt the cursor.
func (q *Queue) Reorder(from, to int) {
	if from == to {
		return
	}
	if from < 0 || from >= len(q.items) || to < 0 || to >= len(q.items) {
		return
	}

	playing := q.items[q.cursor]

	item := q.items[from]
	rest := append(q.items[:from:from], q.items[from+1:]...)
	q.items = append(rest[:to:to], append([]*media.Item{item}, rest[to:]...)...)

	// Re-locate the playing member by identity.
	idx := lo.IndexOf(q.items, playing)
	if idx == -1 {
		return
	}
	q.cursor = idx
}
