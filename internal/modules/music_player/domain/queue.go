package domain

import (
	"math/rand/v2"
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// MaxQueueSize is the number of songs a guild queue can hold.
const MaxQueueSize = 2000

// Queue is a bounded, ordered list of songs. The head is the song that is
// playing or about to play.
type Queue struct {
	songs    []*Song
	capacity int
	advance  Advance
}

// NewQueue creates an empty Queue holding up to MaxQueueSize songs.
func NewQueue() *Queue {
	return NewQueueWithCapacity(MaxQueueSize)
}

// NewQueueWithCapacity creates an empty Queue holding up to capacity songs.
func NewQueueWithCapacity(capacity int) *Queue {
	return &Queue{
		songs:    make([]*Song, 0),
		capacity: max(capacity, 0),
	}
}

// Len returns the number of songs.
func (q *Queue) Len() int {
	return len(q.songs)
}

// Capacity returns the maximum number of songs.
func (q *Queue) Capacity() int {
	return q.capacity
}

// IsEmpty returns true if the queue has no songs.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// IsFull returns true if no more songs can be added.
func (q *Queue) IsFull() bool {
	return q.Len() >= q.capacity
}

// AvailableSize returns how many more songs can be added.
func (q *Queue) AvailableSize() int {
	return max(q.capacity-q.Len(), 0)
}

// Add appends song. It returns false without mutating the queue when full.
func (q *Queue) Add(song *Song) bool {
	if q.IsFull() {
		return false
	}
	q.songs = append(q.songs, song)
	return true
}

// At returns the song at index, or nil if out of bounds.
func (q *Queue) At(index int) *Song {
	if index < 0 || index >= q.Len() {
		return nil
	}
	return q.songs[index]
}

// First returns the head, or nil.
func (q *Queue) First() *Song {
	return q.At(0)
}

// Last returns the tail, or nil.
func (q *Queue) Last() *Song {
	return q.At(q.Len() - 1)
}

// Songs returns a copy of the songs in order.
func (q *Queue) Songs() []*Song {
	return slices.Clone(q.songs)
}

// SongsAt returns the distinct songs at the valid indexes, in the given order.
func (q *Queue) SongsAt(indexes []int) []*Song {
	var result []*Song
	for _, i := range indexes {
		if s := q.At(i); s != nil && !slices.Contains(result, s) {
			result = append(result, s)
		}
	}
	return result
}

// NextAdvance returns how the next Shift will behave.
func (q *Queue) NextAdvance() Advance {
	return q.advance
}

// SuppressNextAdvance marks the head as already removed, so the next Shift
// is a no-op. It must be called right before ending a stream whose song was
// removed out of band.
func (q *Queue) SuppressNextAdvance() {
	q.advance = ForcedAdvance
}

// ClearSuppression drops a pending ForcedAdvance.
func (q *Queue) ClearSuppression() {
	q.advance = NaturalAdvance
}

// Shift removes and returns the head. After SuppressNextAdvance it only
// resets the advance mode and returns nil.
func (q *Queue) Shift() *Song {
	if q.advance == ForcedAdvance {
		q.advance = NaturalAdvance
		return nil
	}
	if q.IsEmpty() {
		return nil
	}
	head := q.songs[0]
	q.songs[0] = nil
	q.songs = q.songs[1:]
	return head
}

// RemoveAll removes every song, or only those requested by requestor when
// it is non-zero. Surviving songs keep their order.
func (q *Queue) RemoveAll(requestor snowflake.ID) []*Song {
	if requestor == 0 {
		removed := q.songs
		q.songs = make([]*Song, 0)
		return removed
	}

	var own []*Song
	others := make([]*Song, 0, q.Len())
	for _, s := range q.songs {
		if s.RequestedBy(requestor) {
			own = append(own, s)
		} else {
			others = append(others, s)
		}
	}
	q.songs = others
	return own
}

// BulkRemove removes the songs at indexes in one pass. Indexes are
// de-duplicated and out of range ones are ignored. When requestor is
// non-zero only that user's songs are eligible. Removed songs are returned
// in queue order.
func (q *Queue) BulkRemove(indexes []int, requestor snowflake.ID) []*Song {
	if q.IsEmpty() {
		return nil
	}

	eligible := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		s := q.At(i)
		if s == nil {
			continue
		}
		if requestor != 0 && !s.RequestedBy(requestor) {
			continue
		}
		eligible[i] = true
	}
	if len(eligible) == 0 {
		return nil
	}

	removed := make([]*Song, 0, len(eligible))
	kept := make([]*Song, 0, q.Len()-len(eligible))
	for i, s := range q.songs {
		if eligible[i] {
			removed = append(removed, s)
		} else {
			kept = append(kept, s)
		}
	}
	q.songs = kept
	return removed
}

// Shuffle randomizes every song after the head. It needs at least three
// songs and reports whether the order was shuffled.
func (q *Queue) Shuffle() bool {
	if q.Len() < 3 {
		return false
	}
	rest := q.songs[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return true
}

// Snapshot returns the songs in a form suitable for persisting.
func (q *Queue) Snapshot() []*Song {
	return q.Songs()
}

// Restore appends songs from a snapshot until the queue is full and
// returns how many were added.
func (q *Queue) Restore(songs []*Song) int {
	added := 0
	for _, s := range songs {
		if s == nil {
			continue
		}
		if !q.Add(s) {
			break
		}
		added++
	}
	return added
}
