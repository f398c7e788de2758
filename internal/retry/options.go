package retry

import (
	"time"

	"github.com/nikmy/txnguard/pkg/txn"
)

type Config struct {
	BaseMicros  int64 `yaml:"base_us"`
	CapMicros   int64 `yaml:"cap_us"`
	MaxAttempts int   `yaml:"max_attempts"`
}

func DefaultConfig() Config {
	return Config{
		BaseMicros:  1,
		CapMicros:   10000,
		MaxAttempts: 10,
	}
}

type options struct {
	maxAttempts int
	isolation   txn.Isolation
	collect     bool
	params      []any
	linearize   bool
	timeout     time.Duration
}

type Option func(*options)

// WithMaxAttempts bounds the number of retries after the first attempt.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithRepeatableRead runs attempts under snapshot isolation instead of
// serializable.
func WithRepeatableRead() Option {
	return func(o *options) { o.isolation = txn.RepeatableRead }
}

// WithBackoffSamples records every backoff delay of the call, replacing
// samples of earlier calls.
func WithBackoffSamples() Option {
	return func(o *options) { o.collect = true }
}

func WithParams(params ...any) Option {
	return func(o *options) { o.params = params }
}

// WithLinearize arms linearization in every attempt's transaction.
func WithLinearize() Option {
	return func(o *options) { o.linearize = true }
}

// WithTimeout stops retrying when d has passed since the call started.
// A running attempt is never interrupted by it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}
