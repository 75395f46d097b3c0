package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/buildprep/internal/config"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.BackoffMode // fixed|linear|exponential
	Initial    time.Duration      // base delay
	Max        time.Duration      // cap for growth
	MaxRetries int                // maximum retry attempts after the first failure
}

// DefaultPolicy returns the policy matching the historical build script
// (fixed, 3s delay, 30s cap, 1 retry).
func DefaultPolicy() Policy {
	return Policy{Mode: config.BackoffFixed, Initial: 3 * time.Second, Max: 30 * time.Second, MaxRetries: 1}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode config.BackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	if mode != "" {
		switch mode {
		case config.BackoffFixed, config.BackoffLinear, config.BackoffExponential:
			p.Mode = mode
		default:
			// unknown -> keep default
		}
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromConfig builds a policy from the retry section of the configuration.
// The backoff mode is normalized so hand-edited configs with odd casing still
// select the intended strategy.
func FromConfig(rc config.RetryConfig) Policy {
	return NewPolicy(config.NormalizeBackoff(string(rc.Backoff)), rc.InitialDuration(), rc.MaxDuration(), rc.MaxRetries)
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.BackoffFixed:
		return p.Initial
	case config.BackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// SleepFunc waits for the given duration. Injectable for tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc; it honors context cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs attempt, and while it fails sleeps per the policy and runs it again,
// up to MaxRetries additional attempts. The last attempt's error is returned.
func (p Policy) Do(ctx context.Context, sleep SleepFunc, attempt func() error) error {
	if sleep == nil {
		sleep = Sleep
	}

	err := attempt()
	for retryCount := 1; err != nil && retryCount <= p.MaxRetries; retryCount++ {
		if sleepErr := sleep(ctx, p.Delay(retryCount)); sleepErr != nil {
			return sleepErr
		}
		err = attempt()
	}
	return err
}
