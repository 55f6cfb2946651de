package events

import (
	"sync"
	"testing"

	"github.com/lixenwraith/threatfield/core"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 5; i++ {
		if !q.Push(EnterSensor(core.UnitID(i), core.SenseLOS)) {
			t.Fatalf("Push(%d) refused", i)
		}
	}
	got := q.Consume(nil)
	if len(got) != 5 {
		t.Fatalf("Consume returned %d events, want 5", len(got))
	}
	for i, ev := range got {
		if ev.Unit != core.UnitID(i) {
			t.Errorf("event %d unit = %d", i, ev.Unit)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after drain", q.Len())
	}
}

// TestQueueRefusesWhenFull verifies queued events are never overwritten
func TestQueueRefusesWhenFull(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 4; i++ {
		q.Push(Destroyed(core.UnitID(i)))
	}
	if q.Push(Destroyed(99)) {
		t.Fatal("Push accepted into a full ring")
	}
	if q.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", q.Dropped())
	}

	got := q.Consume(nil)
	if len(got) != 4 || got[0].Unit != 0 || got[3].Unit != 3 {
		t.Errorf("Consume = %+v", got)
	}

	// Space is reclaimed after a drain
	if !q.Push(Destroyed(5)) {
		t.Error("Push refused after drain")
	}
}

func TestQueueWrapAround(t *testing.T) {
	q := NewQueue(4)
	next := 0
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			q.Push(Destroyed(core.UnitID(next + i)))
		}
		got := q.Consume(nil)
		for i, ev := range got {
			if ev.Unit != core.UnitID(next+i) {
				t.Fatalf("round %d: event %d unit = %d", round, i, ev.Unit)
			}
		}
		next += 3
	}
}

// TestQueueConcurrentProducers races many producers against one consumer
func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(1024)
	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.Push(EnterSensor(core.UnitID(p), core.SenseRadar)) {
				}
			}
		}()
	}

	counts := make(map[core.UnitID]int)
	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var buf []SightingEvent
	for {
		buf = q.Consume(buf[:0])
		for _, ev := range buf {
			counts[ev.Unit]++
			total++
		}
		select {
		case <-done:
			buf = q.Consume(buf[:0])
			for _, ev := range buf {
				counts[ev.Unit]++
				total++
			}
			if total != producers*perProducer {
				t.Fatalf("total = %d, want %d", total, producers*perProducer)
			}
			for p := 0; p < producers; p++ {
				if counts[core.UnitID(p)] != perProducer {
					t.Errorf("producer %d delivered %d", p, counts[core.UnitID(p)])
				}
			}
			return
		default:
		}
	}
}

func TestNewQueueRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewQueue(100) did not panic")
		}
	}()
	NewQueue(100)
}
