package core

// Time is the per-tick clock state shared with entities
// Written once per fixed step by the scheduler, read by everything else
type Time struct {
	// DeltaTime is the step length in seconds scaled by TimeScale
	DeltaTime float64

	// RealDeltaTime is the unscaled step length in seconds
	RealDeltaTime float64

	// TimeScale controls how fast simulated time passes, 1 is real time
	TimeScale float64

	// Elapsed is the scaled time accumulated since start
	Elapsed float64

	// Ticks counts fixed steps since start
	Ticks uint64
}

// NewTime returns clock state running at real time
func NewTime() *Time {
	return &Time{TimeScale: 1}
}

// Update advances the clock by one step of delta seconds
func (t *Time) Update(delta float64) {
	t.RealDeltaTime = delta
	t.DeltaTime = delta * t.TimeScale
	t.Elapsed += t.DeltaTime
	t.Ticks++
}
