package status

import (
	"math"
	"sync/atomic"
)

// Float is an atomically updated float64, zero value reads as 0
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// MaxLabelLen bounds stored labels; longer values are cut
const MaxLabelLen = 32

// Label is an atomically swapped short string
type Label struct {
	ptr atomic.Pointer[string]
}

func (l *Label) Store(v string) {
	if len(v) > MaxLabelLen {
		v = v[:MaxLabelLen]
	}
	l.ptr.Store(&v)
}

func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
