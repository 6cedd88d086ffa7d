package rdc

import "github.com/cfreal/simplerdc/linkaddr"

// replayEntry is one (sender, sequence number) pair remembered by the
// replay filter.
type replayEntry struct {
	Sender linkaddr.Addr
	Seq    byte
}

// replayFilter is the fixed-capacity, most-recently-seen dedup table
// of §3/§4.6: at most capacity entries, linear-scanned, with the most
// recently seen pair shifted to index 0. There is no dynamic growth —
// entries lives in a fixed-size slice allocated once at construction.
type replayFilter struct {
	entries  []replayEntry
	capacity int
}

// newReplayFilter returns an empty replayFilter able to remember up to
// capacity pairs. capacity <= 0 is treated as 1.
func newReplayFilter(capacity int) *replayFilter {
	if capacity <= 0 {
		capacity = 1
	}
	return &replayFilter{entries: make([]replayEntry, 0, capacity), capacity: capacity}
}

// reset empties the table, as done by init().
func (f *replayFilter) reset() {
	f.entries = f.entries[:0]
}

// seenOrInsert reports whether (sender, seq) is already present. If it
// is, the table is left unchanged and the caller must drop the frame.
// If it is not, the pair is inserted as the new most-recently-seen
// entry (index 0), pushing older entries right and dropping the
// oldest if the table is already at capacity.
func (f *replayFilter) seenOrInsert(sender linkaddr.Addr, seq byte) bool {
	for _, e := range f.entries {
		if e.Sender == sender && e.Seq == seq {
			return true
		}
	}

	n := len(f.entries)
	if n < f.capacity {
		f.entries = append(f.entries, replayEntry{})
		n++
	}
	for i := n - 1; i > 0; i-- {
		f.entries[i] = f.entries[i-1]
	}
	f.entries[0] = replayEntry{Sender: sender, Seq: seq}
	return false
}
