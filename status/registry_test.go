package status

import (
	"strings"
	"sync"
	"testing"
)

func TestMetricsGetReturnsSamePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("engine.ticks")
	b := r.Ints.Get("engine.ticks")
	if a != b {
		t.Fatal("Expected cached pointer on second Get")
	}
	a.Add(3)
	if got := b.Load(); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	if !r.Ints.Has("engine.ticks") || r.Ints.Has("missing") {
		t.Error("Expected Has to report membership")
	}
}

func TestFloatConcurrentStore(t *testing.T) {
	var f Float
	if f.Load() != 0 {
		t.Fatal("Expected zero float to read 0")
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				f.Store(v)
				_ = f.Load()
			}
		}(float64(i) + 0.5)
	}
	wg.Wait()
	if got := f.Load(); got < 0.5 || got > 7.5 || got != float64(int(got))+0.5 {
		t.Errorf("Expected one of the stored values, got %v", got)
	}
}

func TestLabelTruncates(t *testing.T) {
	var l Label
	if l.Load() != "" {
		t.Fatal("Expected zero label empty")
	}
	l.Store(strings.Repeat("x", MaxLabelLen+10))
	if got := len(l.Load()); got != MaxLabelLen {
		t.Errorf("Expected length %d, got %d", MaxLabelLen, got)
	}
}

func TestSnapshotSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("b.count").Store(2)
	r.Floats.Get("a.fps").Store(59.5)
	r.Labels.Get("c.state").Store("playing")

	got := r.Snapshot()
	want := []string{"a.fps=59.50", "b.count=2", "c.state=playing"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d]: Expected %q, got %q", i, want[i], got[i])
		}
	}
	if r.Len() != 3 {
		t.Errorf("Expected Len 3, got %d", r.Len())
	}
}
