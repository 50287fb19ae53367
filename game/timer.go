package game

// Timer counts elapsed seconds towards a duration. A repeating timer wraps
// around and keeps going; a one-shot timer stays finished until Reset.
type Timer struct {
	Duration     float64
	Elapsed      float64
	Repeating    bool
	finished     bool
	justFinished bool
}

// NewTimer returns a timer of the given length in seconds.
func NewTimer(seconds float64, repeating bool) Timer {
	return Timer{Duration: seconds, Repeating: repeating}
}

// Tick advances the timer by dt seconds and reports whether it finished
// during this tick.
func (t *Timer) Tick(dt float64) bool {
	t.justFinished = false
	if t.finished && !t.Repeating {
		return false
	}

	t.Elapsed += dt
	if t.Elapsed < t.Duration {
		t.finished = false
		return false
	}

	t.justFinished = true
	if t.Repeating && t.Duration > 0 {
		for t.Elapsed >= t.Duration {
			t.Elapsed -= t.Duration
		}
		t.finished = false
	} else {
		t.Elapsed = t.Duration
		t.finished = true
	}
	return true
}

// JustFinished reports whether the last Tick finished the timer.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Finished reports whether a one-shot timer has run out.
func (t *Timer) Finished() bool {
	return t.finished
}

// Reset rewinds the timer to zero.
func (t *Timer) Reset() {
	t.Elapsed = 0
	t.finished = false
	t.justFinished = false
}

// SetRepeating switches between repeating and one-shot mode.
func (t *Timer) SetRepeating(repeating bool) {
	t.Repeating = repeating
}

// Fraction returns how far through its duration the timer is, in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return min(t.Elapsed/t.Duration, 1)
}
