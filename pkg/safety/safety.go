// Package safety implements the operational circuit breaker that demotes the
// layout engine to a legacy path after repeated errors or latency budget
// violations, and attempts timed recovery afterwards.
//
// A Net is an owned resource with an explicit lifecycle: create it with New,
// share one instance per editing session, and Destroy it on teardown so a
// pending recovery timer can never fire after disposal. It is deliberately
// not ambient global state; tests run as many independent instances as they
// like.
package safety

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Reason records why fallback was entered.
type Reason string

const (
	ReasonError          Reason = "error"
	ReasonLatency        Reason = "latency"
	ReasonManual         Reason = "manual"
	ReasonBudgetExceeded Reason = "budget_exceeded"
)

// Metric names a latency budget.
type Metric int

const (
	// MetricLayout is the full-document layout pass budget.
	MetricLayout Metric = iota
	// MetricCursor is the per-keystroke re-layout budget.
	MetricCursor
)

func (m Metric) String() string {
	if m == MetricCursor {
		return "cursor"
	}
	return "layout"
}

// Config holds the breaker thresholds. All values must be positive.
type Config struct {
	MaxConsecutiveErrors int
	MaxLayoutDuration    time.Duration
	MaxCursorLatency     time.Duration
	CooldownPeriod       time.Duration
}

// DefaultConfig returns the documented defaults: 3 consecutive errors,
// 100ms layout budget, 5ms cursor budget, 5s cooldown.
func DefaultConfig() Config {
	return Config{
		MaxConsecutiveErrors: 3,
		MaxLayoutDuration:    100 * time.Millisecond,
		MaxCursorLatency:     5 * time.Millisecond,
		CooldownPeriod:       5 * time.Second,
	}
}

func (c Config) validate() error {
	if c.MaxConsecutiveErrors <= 0 {
		return fmt.Errorf("safety: MaxConsecutiveErrors must be positive, got %d", c.MaxConsecutiveErrors)
	}
	if c.MaxLayoutDuration <= 0 || c.MaxCursorLatency <= 0 || c.CooldownPeriod <= 0 {
		return fmt.Errorf("safety: durations must be positive (layout=%v cursor=%v cooldown=%v)",
			c.MaxLayoutDuration, c.MaxCursorLatency, c.CooldownPeriod)
	}
	return nil
}

// timerStopper is the slice of *time.Timer the Net needs; tests substitute
// their own afterFunc returning a fake.
type timerStopper interface {
	Stop() bool
}

// Net is the circuit breaker. Two states exist: active (normal path) and
// fallback (legacy path). All methods are safe for concurrent use with the
// recovery timer callback.
type Net struct {
	mu sync.Mutex

	cfg    Config
	logger *slog.Logger

	errorCount      int
	fallbackActive  bool
	fallbackReason  Reason
	cooldownPending bool
	timer           timerStopper
	destroyed       bool

	onFallback func(Reason)
	onRecover  func()

	// afterFunc schedules the one-shot recovery timer; replaced in tests.
	afterFunc func(time.Duration, func()) timerStopper
}

// Option customizes a Net at construction.
type Option func(*Net)

// WithLogger sets the logger used for state transition events.
func WithLogger(l *slog.Logger) Option {
	return func(n *Net) { n.logger = l }
}

// WithFallbackHandler registers the handler invoked, with the reason, each
// time the net newly enters fallback.
func WithFallbackHandler(h func(Reason)) Option {
	return func(n *Net) { n.onFallback = h }
}

// WithRecoveryHandler registers the handler invoked on successful recovery.
func WithRecoveryHandler(h func()) Option {
	return func(n *Net) { n.onRecover = h }
}

// New validates the config and creates an active Net.
func New(cfg Config, opts ...Option) (*Net, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := &Net{
		cfg:    cfg,
		logger: slog.Default(),
		afterFunc: func(d time.Duration, f func()) timerStopper {
			return time.AfterFunc(d, f)
		},
	}
	for _, o := range opts {
		o(n)
	}
	return n, nil
}

// RecordError counts one operational failure. Reaching the consecutive-error
// threshold triggers fallback with reason "error".
func (n *Net) RecordError() {
	n.mu.Lock()
	n.errorCount++
	trip := n.errorCount >= n.cfg.MaxConsecutiveErrors
	n.mu.Unlock()
	if trip {
		n.TriggerFallback(ReasonError)
	}
}

// RecordLatency reports one observed duration against the metric's budget.
// A breach triggers fallback with reason "latency".
func (n *Net) RecordLatency(metric Metric, value time.Duration) {
	budget := n.cfg.MaxLayoutDuration
	if metric == MetricCursor {
		budget = n.cfg.MaxCursorLatency
	}
	if value > budget {
		n.logger.Warn("latency budget exceeded",
			"metric", metric.String(), "value", value, "budget", budget)
		n.TriggerFallback(ReasonLatency)
	}
}

// TriggerFallback demotes to the fallback path. Triggering while already in
// fallback is a no-op: the handler is not re-notified and the cooldown timer
// is not rescheduled.
func (n *Net) TriggerFallback(reason Reason) {
	n.mu.Lock()
	if n.fallbackActive || n.destroyed {
		n.mu.Unlock()
		return
	}
	n.fallbackActive = true
	n.fallbackReason = reason
	n.cooldownPending = true
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = n.afterFunc(n.cfg.CooldownPeriod, n.onCooldownElapsed)
	handler := n.onFallback
	n.mu.Unlock()

	n.logger.Warn("layout fallback engaged", "reason", string(reason))
	if handler != nil {
		handler(reason)
	}
}

// onCooldownElapsed is the recovery timer callback.
func (n *Net) onCooldownElapsed() {
	n.mu.Lock()
	n.cooldownPending = false
	n.timer = nil
	n.mu.Unlock()
	n.AttemptRecovery()
}

// AttemptRecovery returns to the active path. It succeeds only when no
// cooldown timer is pending; while one is pending it returns false and makes
// no change. On success the error counter is cleared and the recovery
// handler runs.
func (n *Net) AttemptRecovery() bool {
	n.mu.Lock()
	if !n.fallbackActive || n.cooldownPending || n.destroyed {
		n.mu.Unlock()
		return false
	}
	n.fallbackActive = false
	n.fallbackReason = ""
	n.errorCount = 0
	handler := n.onRecover
	n.mu.Unlock()

	n.logger.Info("layout fallback recovered")
	if handler != nil {
		handler()
	}
	return true
}

// Reset clears the consecutive-error counter. Call after any successful
// operation so unrelated errors spread over time never accumulate to the
// threshold.
func (n *Net) Reset() {
	n.mu.Lock()
	n.errorCount = 0
	n.mu.Unlock()
}

// IsFallbackActive reports whether the legacy path is in effect.
func (n *Net) IsFallbackActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fallbackActive
}

// FallbackReason returns the reason fallback was entered, or "" when active.
func (n *Net) FallbackReason() Reason {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fallbackReason
}

// ErrorCount returns the current consecutive-error count.
func (n *Net) ErrorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.errorCount
}

// Destroy cancels any pending recovery timer and disables the net. It must
// run on every exit path at session teardown; a recovery callback firing
// after disposal would resurrect state nobody owns anymore.
func (n *Net) Destroy() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destroyed = true
	n.cooldownPending = false
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
