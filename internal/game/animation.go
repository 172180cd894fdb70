package game

import "time"

// Animator steps the coin and torch frames on a fixed interval.
type Animator struct {
	interval time.Duration
	last     time.Time

	coinFrames, torchFrames int
	coin, torch             int
}

// NewAnimator cycles coinFrames and torchFrames frames every interval.
func NewAnimator(interval time.Duration, coinFrames, torchFrames int) *Animator {
	return &Animator{interval: interval, coinFrames: coinFrames, torchFrames: torchFrames}
}

// Advance moves to the next frames if an interval has passed since the
// last step, and reports whether it did.
func (a *Animator) Advance(now time.Time) bool {
	if a.last.IsZero() {
		a.last = now
		return false
	}
	if now.Sub(a.last) < a.interval {
		return false
	}
	a.last = now
	if a.coinFrames > 0 {
		a.coin = (a.coin + 1) % a.coinFrames
	}
	if a.torchFrames > 0 {
		a.torch = (a.torch + 1) % a.torchFrames
	}
	return true
}

// Frames returns the current coin and torch frame.
func (a *Animator) Frames() (coin, torch int) {
	return a.coin, a.torch
}
