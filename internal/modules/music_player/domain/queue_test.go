package domain

import (
	"slices"
	"strconv"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func testSong(id string, requestor snowflake.ID) *Song {
	return NewSong(Video{ID: id, Title: "Song " + id}, Requestor{ID: requestor, Tag: "user"}, nil)
}

func fillQueue(t *testing.T, q *Queue, n int, requestor snowflake.ID) []*Song {
	t.Helper()
	songs := make([]*Song, n)
	for i := range n {
		songs[i] = testSong(strconv.Itoa(i), requestor)
		if !q.Add(songs[i]) {
			t.Fatalf("failed to add song %d", i)
		}
	}
	return songs
}

func ids(songs []*Song) []string {
	result := make([]string, len(songs))
	for i, s := range songs {
		result[i] = s.ID
	}
	return result
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("expected empty queue, got length %d", q.Len())
	}
	if q.Capacity() != MaxQueueSize {
		t.Errorf("expected capacity %d, got %d", MaxQueueSize, q.Capacity())
	}
	if q.First() != nil || q.Last() != nil {
		t.Error("expected no head or tail")
	}
}

func TestQueue_Add_Bounded(t *testing.T) {
	q := NewQueueWithCapacity(2)
	a, b, c := testSong("a", 1), testSong("b", 1), testSong("c", 1)

	if !q.Add(a) || !q.Add(b) {
		t.Fatal("expected first two adds to succeed")
	}
	if q.Add(c) {
		t.Error("expected add on full queue to fail")
	}
	if got := q.Songs(); !slices.Equal(got, []*Song{a, b}) {
		t.Errorf("expected [a b], got %v", ids(got))
	}
	if !q.IsFull() || q.AvailableSize() != 0 {
		t.Errorf("expected full queue, available %d", q.AvailableSize())
	}
}

func TestQueue_Add_GrowsByOne(t *testing.T) {
	q := NewQueueWithCapacity(3)

	for i := range 3 {
		before := q.Len()
		if !q.Add(testSong(strconv.Itoa(i), 1)) {
			t.Fatalf("add %d failed", i)
		}
		if q.Len() != before+1 {
			t.Errorf("expected length %d, got %d", before+1, q.Len())
		}
	}
}

func TestQueue_Shift(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 2, 1)

	if got := q.Shift(); got != songs[0] {
		t.Errorf("expected first song, got %v", got)
	}
	if got := q.Shift(); got != songs[1] {
		t.Errorf("expected second song, got %v", got)
	}
	if got := q.Shift(); got != nil {
		t.Errorf("expected nil from empty queue, got %v", got)
	}
}

func TestQueue_SuppressNextAdvance(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 3, 1)

	q.SuppressNextAdvance()
	if q.NextAdvance() != ForcedAdvance {
		t.Fatalf("expected forced advance, got %s", q.NextAdvance())
	}

	if got := q.Shift(); got != nil {
		t.Errorf("expected suppressed shift to return nil, got %v", got)
	}
	if q.Len() != 3 {
		t.Errorf("expected length 3 after suppressed shift, got %d", q.Len())
	}
	if q.NextAdvance() != NaturalAdvance {
		t.Errorf("expected flag consumed, got %s", q.NextAdvance())
	}

	if got := q.Shift(); got != songs[0] {
		t.Errorf("expected normal shift after suppression, got %v", got)
	}
}

func TestQueue_ClearSuppression(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 1, 1)

	q.SuppressNextAdvance()
	q.ClearSuppression()

	if got := q.Shift(); got != songs[0] {
		t.Errorf("expected head after clearing suppression, got %v", got)
	}
}

func TestQueue_BulkRemove(t *testing.T) {
	tests := []struct {
		name        string
		indexes     []int
		requestor   snowflake.ID
		wantRemoved []string
		wantKept    []string
	}{
		{"single", []int{1}, 0, []string{"1"}, []string{"0", "2", "3", "4"}},
		{"duplicates", []int{2, 2, 2}, 0, []string{"2"}, []string{"0", "1", "3", "4"}},
		{"unordered", []int{4, 0, 2}, 0, []string{"0", "2", "4"}, []string{"1", "3"}},
		{"out of range ignored", []int{-1, 5, 100, 3}, 0, []string{"3"}, []string{"0", "1", "2", "4"}},
		{"requestor filter", []int{0, 1, 2, 3}, 2, []string{"1", "3"}, []string{"0", "2", "4"}},
		{"nothing eligible", []int{0}, 2, nil, []string{"0", "1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for i := range 5 {
				// odd positions belong to user 2
				requestor := snowflake.ID(1)
				if i%2 == 1 {
					requestor = 2
				}
				q.Add(testSong(strconv.Itoa(i), requestor))
			}

			removed := q.BulkRemove(tt.indexes, tt.requestor)

			if got := ids(removed); !slices.Equal(got, tt.wantRemoved) && !(len(got) == 0 && len(tt.wantRemoved) == 0) {
				t.Errorf("removed %v, want %v", got, tt.wantRemoved)
			}
			if got := ids(q.Songs()); !slices.Equal(got, tt.wantKept) {
				t.Errorf("kept %v, want %v", got, tt.wantKept)
			}
		})
	}
}

func TestQueue_BulkRemove_Repeated(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 3, 1)

	first := q.BulkRemove([]int{1}, 0)
	second := q.BulkRemove([]int{1}, 0)

	if len(first) != 1 || first[0] != songs[1] {
		t.Errorf("first removal = %v", ids(first))
	}
	// index 1 now refers to the former index 2
	if len(second) != 1 || second[0] != songs[2] {
		t.Errorf("second removal = %v", ids(second))
	}
	if got := q.Songs(); !slices.Equal(got, []*Song{songs[0]}) {
		t.Errorf("remaining %v", ids(got))
	}
}

func TestQueue_BulkRemove_Empty(t *testing.T) {
	q := NewQueue()

	if removed := q.BulkRemove([]int{0}, 0); removed != nil {
		t.Errorf("expected nil, got %v", removed)
	}
}

func TestQueue_RemoveAll(t *testing.T) {
	t.Run("everyone", func(t *testing.T) {
		q := NewQueue()
		songs := fillQueue(t, q, 3, 1)

		removed := q.RemoveAll(0)

		if !slices.Equal(removed, songs) {
			t.Errorf("removed %v", ids(removed))
		}
		if !q.IsEmpty() {
			t.Errorf("expected empty queue, got %d", q.Len())
		}
	})

	t.Run("requestor", func(t *testing.T) {
		q := NewQueue()
		a, b, c, d := testSong("a", 1), testSong("b", 2), testSong("c", 1), testSong("d", 2)
		for _, s := range []*Song{a, b, c, d} {
			q.Add(s)
		}

		removed := q.RemoveAll(2)

		if !slices.Equal(removed, []*Song{b, d}) {
			t.Errorf("removed %v", ids(removed))
		}
		if got := q.Songs(); !slices.Equal(got, []*Song{a, c}) {
			t.Errorf("kept %v", ids(got))
		}
	})
}

func TestQueue_SongsAt(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 3, 1)

	got := q.SongsAt([]int{2, 0, 2, 9})

	if !slices.Equal(got, []*Song{songs[2], songs[0]}) {
		t.Errorf("SongsAt = %v", ids(got))
	}
}

func TestQueue_Shuffle(t *testing.T) {
	t.Run("too small", func(t *testing.T) {
		q := NewQueue()
		songs := fillQueue(t, q, 2, 1)

		if q.Shuffle() {
			t.Error("expected no shuffle with two songs")
		}
		if !slices.Equal(q.Songs(), songs) {
			t.Error("order changed")
		}
	})

	t.Run("keeps head", func(t *testing.T) {
		q := NewQueue()
		songs := fillQueue(t, q, 20, 1)

		if !q.Shuffle() {
			t.Fatal("expected shuffle")
		}
		got := q.Songs()
		if got[0] != songs[0] {
			t.Error("head moved")
		}
		if len(got) != len(songs) {
			t.Fatalf("length changed to %d", len(got))
		}
		for _, s := range songs {
			if !slices.Contains(got, s) {
				t.Errorf("song %s lost", s.ID)
			}
		}
	})
}

func TestQueue_SnapshotRestore(t *testing.T) {
	q := NewQueue()
	songs := fillQueue(t, q, 3, 1)

	snapshot := q.Snapshot()
	q.RemoveAll(0)
	if len(snapshot) != 3 {
		t.Fatalf("snapshot mutated with the queue: %d", len(snapshot))
	}

	restored := NewQueueWithCapacity(2)
	if n := restored.Restore(snapshot); n != 2 {
		t.Errorf("expected 2 restored, got %d", n)
	}
	if got := restored.Songs(); !slices.Equal(got, songs[:2]) {
		t.Errorf("restored %v", ids(got))
	}
}
