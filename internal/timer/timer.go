// Package timer implements the delay and sound timers of the CHIP-8
// machine. Both are 8 bit counters decremented at a fixed 60 Hz
// cadence while nonzero, driven by the emulator's timer loop.
package timer

// Timers holds the delay and sound timer counters. Sound is considered
// active while the sound timer is nonzero. The optional OnSound
// callback is invoked with the new active state whenever the sound
// timer transitions between zero and nonzero, in either direction.
type Timers struct {
	delay byte
	sound byte

	// OnSound is called on sound start (true) and sound stop (false).
	// It runs on the goroutine that caused the transition, either the
	// timer loop or the CPU loop executing a timer write instruction.
	OnSound func(active bool)
}

// New creates new timers with both counters at zero.
func New() *Timers {
	return &Timers{}
}

// Tick decrements both timers independently if nonzero. A tick on a
// zero timer is a no-op, the counters never go below zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
		if t.sound == 0 && t.OnSound != nil {
			t.OnSound(false)
		}
	}
}

// Delay returns the current delay timer value.
func (t *Timers) Delay() byte {
	return t.delay
}

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(value byte) {
	t.delay = value
}

// Sound returns the current sound timer value.
func (t *Timers) Sound() byte {
	return t.sound
}

// SetSound sets the sound timer and reports zero/nonzero transitions
// through the OnSound callback.
func (t *Timers) SetSound(value byte) {
	wasActive := t.sound > 0
	t.sound = value

	if t.OnSound == nil {
		return
	}
	if active := t.sound > 0; active != wasActive {
		t.OnSound(active)
	}
}

// SoundActive reports whether the sound timer is nonzero.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

// Reset sets both timers to zero without emitting sound events, used
// as part of a whole machine reset.
func (t *Timers) Reset() {
	t.delay = 0
	t.sound = 0
}
