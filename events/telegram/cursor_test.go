package telegram

import (
	"math/rand"
	"testing"
)

func TestCursor_UnsetInitially(t *testing.T) {
	var c Cursor

	if _, ok := c.Value(); ok {
		t.Fatal("expected unset cursor")
	}
	if _, ok := c.NextOffset(); ok {
		t.Fatal("expected no offset constraint")
	}
}

func TestCursor_NextOffsetAfterBatch(t *testing.T) {
	var c Cursor

	for _, id := range []int{5, 6, 7} {
		c.Advance(id)
	}

	offset, ok := c.NextOffset()
	if !ok || offset != 8 {
		t.Fatalf("expected offset 8, got %d (ok=%v)", offset, ok)
	}
}

func TestCursor_Monotonic(t *testing.T) {
	var c Cursor
	r := rand.New(rand.NewSource(1))

	prev, _ := c.Value()
	for i := 0; i < 1000; i++ {
		c.Advance(r.Intn(500))

		cur, ok := c.Value()
		if !ok {
			t.Fatal("cursor unset after advance")
		}
		if cur < prev {
			t.Fatalf("cursor decreased from %d to %d", prev, cur)
		}
		prev = cur
	}
}

func TestCursor_AdvanceReportsMove(t *testing.T) {
	var c Cursor

	if !c.Advance(3) {
		t.Fatal("first advance should move the cursor")
	}
	if c.Advance(3) {
		t.Fatal("equal id should not move the cursor")
	}
	if c.Advance(2) {
		t.Fatal("lower id should not move the cursor")
	}
	if !c.Advance(4) {
		t.Fatal("higher id should move the cursor")
	}
}
