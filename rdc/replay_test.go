package rdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cfreal/simplerdc/linkaddr"
)

func TestReplayFilterDropsImmediateRepeat(t *testing.T) {
	f := newReplayFilter(2)
	sender := linkaddr.Addr{0x00, 0x01}

	assert.False(t, f.seenOrInsert(sender, 17))
	assert.True(t, f.seenOrInsert(sender, 17))
}

func TestReplayFilterMRUOrdering(t *testing.T) {
	f := newReplayFilter(2)
	a := linkaddr.Addr{0, 1}
	b := linkaddr.Addr{0, 2}

	f.seenOrInsert(a, 1)
	f.seenOrInsert(b, 1)
	// capacity 2: a's entry is still remembered
	assert.True(t, f.seenOrInsert(a, 1))

	// a third distinct pair evicts the oldest (a,1)
	c := linkaddr.Addr{0, 3}
	f.seenOrInsert(c, 1)
	assert.False(t, f.seenOrInsert(a, 1))
}

func TestReplayFilterNeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		n := rapid.IntRange(0, 50).Draw(t, "n")

		f := newReplayFilter(capacity)
		for i := 0; i < n; i++ {
			hi := byte(rapid.IntRange(0, 255).Draw(t, "hi"))
			lo := byte(rapid.IntRange(0, 255).Draw(t, "lo"))
			seq := byte(rapid.IntRange(0, 255).Draw(t, "seq"))
			f.seenOrInsert(linkaddr.Addr{hi, lo}, seq)
			if len(f.entries) > capacity {
				t.Fatalf("replay filter grew past capacity %d: %d entries", capacity, len(f.entries))
			}
		}
	})
}

func TestReplayFilterDuplicateNeverDeliveredTwice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sender := linkaddr.Addr{0xAA, 0xBB}
		seq := byte(rapid.IntRange(0, 255).Draw(t, "seq"))

		f := newReplayFilter(2)
		first := f.seenOrInsert(sender, seq)
		second := f.seenOrInsert(sender, seq)

		if first {
			t.Fatalf("first sighting of (%v, %d) reported as a duplicate", sender, seq)
		}
		if !second {
			t.Fatalf("second sighting of (%v, %d) was not dropped as a duplicate", sender, seq)
		}
	})
}
