package retry

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/nikmy/txnguard/internal/metrics"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
	"github.com/nikmy/txnguard/pkg/txn"
)

type conn interface {
	Begin(ctx context.Context, lvl txn.Isolation) (txn.Txn, error)
	InTransactionBlock() bool
}

// Executor runs statements in their own transactions, retrying
// serialization failures. One executor serves one connection.
type Executor struct {
	log       logger.Logger
	conn      conn
	cfg       Config
	backoff   Backoff
	linearize func(txn.Txn) error

	attempt atomic.Int32
	samples []int64
}

type ExecutorOption func(*Executor)

// WithLinearizer sets how WithLinearize arms a transaction.
func WithLinearizer(fn func(txn.Txn) error) ExecutorOption {
	return func(e *Executor) { e.linearize = fn }
}

// WithJitter replaces the random source of backoff jitter, e.g. for
// deterministic tests. fn must return values in [0, 1).
func WithJitter(fn func() float64) ExecutorOption {
	return func(e *Executor) {
		if fn != nil {
			e.backoff.Jitter = fn
		}
	}
}

func New(log logger.Logger, c conn, cfg Config, opts ...ExecutorOption) *Executor {
	e := &Executor{
		log:     log.With("retry"),
		conn:    c,
		cfg:     cfg,
		backoff: NewBackoff(cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CurrentAttempt is the number of serialization failures seen by the
// running call. It keeps the final count after a call gave up and is
// zero otherwise.
func (e *Executor) CurrentAttempt() int {
	return int(e.attempt.Load())
}

// BackoffValues returns delays, in microseconds, recorded by the latest
// call made with WithBackoffSamples.
func (e *Executor) BackoffValues() []int64 {
	return slices.Clone(e.samples)
}

func (e *Executor) Do(ctx context.Context, statement string, opts ...Option) error {
	o := options{
		maxAttempts: e.cfg.MaxAttempts,
		isolation:   txn.Serializable,
	}
	for _, opt := range opts {
		opt(&o)
	}

	err := e.validate(statement, o)
	if err != nil {
		return err
	}

	if o.collect {
		e.samples = nil
	}
	e.attempt.Store(0)

	var (
		stmt      = txn.Statement{Text: statement, Params: o.params}
		started   = time.Now()
		exhausted bool
	)

	backoff := goretry.BackoffFunc(func() (time.Duration, bool) {
		attempt := int(e.attempt.Add(1))
		if attempt > o.maxAttempts {
			exhausted = true
			return 0, true
		}

		delay := e.backoff.Delay(attempt)
		if o.collect {
			e.samples = append(e.samples, delay)
		}
		metrics.RetryBackoff.Observe(float64(delay))
		e.log.Debugf("attempt %d failed to serialize, backing off for %dµs", attempt, delay)

		return time.Duration(delay) * time.Microsecond, false
	})

	err = goretry.Do(ctx, backoff, func(ctx context.Context) error {
		if o.timeout > 0 && time.Since(started) >= o.timeout {
			return errors.Newf(errors.ClassTimeout, "transaction timed out after %d ms", o.timeout.Milliseconds())
		}
		return e.attemptOnce(ctx, stmt, o)
	})

	switch {
	case err == nil:
		e.attempt.Store(0)
		return nil
	case exhausted:
		metrics.RetryAttempts.WithLabelValues(metrics.OutcomeExhausted).Inc()
		e.log.Infof("gave up after %d attempts", e.attempt.Load())
		return errors.Because(
			err,
			errors.ClassMaxAttempts,
			fmt.Sprintf("maximum number of retries (%d) has been attempted", o.maxAttempts),
			"",
			"",
		)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		e.attempt.Store(0)
		return errors.Wrap(err, "retry interrupted")
	default:
		e.attempt.Store(0)
		return err
	}
}

// attemptOnce runs one transaction. Every failed attempt is rolled back
// before its error leaves, so a backoff sleep never holds a transaction.
func (e *Executor) attemptOnce(ctx context.Context, stmt txn.Statement, o options) error {
	err := txn.Run(ctx, e.conn, o.isolation, func(tx txn.Txn) error {
		if o.linearize {
			err := e.linearize(tx)
			if err != nil {
				return err
			}
		}
		return tx.Exec(ctx, stmt)
	})

	switch {
	case err == nil:
		metrics.RetryAttempts.WithLabelValues(metrics.OutcomeCommitted).Inc()
		return nil
	case errors.IsRetryable(err):
		metrics.RetryAttempts.WithLabelValues(metrics.OutcomeSerialization).Inc()
		return goretry.RetryableError(err)
	default:
		metrics.RetryAttempts.WithLabelValues(metrics.OutcomeFailed).Inc()
		return err
	}
}

func (e *Executor) validate(statement string, o options) error {
	if statement == "" {
		return errors.New(errors.ClassParameter, "transaction statements argument is required")
	}
	if o.maxAttempts < 0 {
		return errors.Newf(errors.ClassParameter, "max attempts must not be negative, got %d", o.maxAttempts)
	}
	if o.timeout < 0 {
		return errors.Newf(errors.ClassParameter, "timeout must not be negative, got %s", o.timeout)
	}
	if o.linearize && e.linearize == nil {
		return errors.New(errors.ClassUsage, "linearization is not available on this connection")
	}
	if e.conn.InTransactionBlock() {
		return errors.New(errors.ClassUsage, "can't be used inside of a transaction block")
	}
	return nil
}
