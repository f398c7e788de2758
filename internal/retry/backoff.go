package retry

import "math/rand"

const maxExponent = 30

// Backoff is capped exponential backoff with full jitter, in microseconds.
type Backoff struct {
	Base   int64
	Cap    int64
	Jitter func() float64
}

func NewBackoff(cfg Config) Backoff {
	return Backoff{
		Base:   cfg.BaseMicros,
		Cap:    cfg.CapMicros,
		Jitter: rand.Float64,
	}
}

// Capped is the upper bound of the delay before the given attempt. The
// exponent is clamped since attempts are caller controlled.
func (b Backoff) Capped(attempt int) int64 {
	exp := min(max(attempt, 0), maxExponent)
	if b.Base > b.Cap>>exp {
		return b.Cap
	}
	return b.Base << exp
}

// Delay is a uniformly jittered Capped value, never less than 1µs.
func (b Backoff) Delay(attempt int) int64 {
	d := int64(b.Jitter() * float64(b.Capped(attempt)))
	return max(d, 1)
}
