// Package policy decides which entries of a pf table are expired
// relative to an explicit reference time. It never touches the
// firewall or the clock itself: callers feed it the current entry
// list and the instant to measure ages against, and act on the
// returned partition.
package policy

import (
	"errors"
	"fmt"
	"time"

	"pftabler/internal/firewall"
)

// ErrInvalidThreshold is returned when a table would be evaluated
// against a zero or negative expiration threshold.
var ErrInvalidThreshold = errors.New("expiration threshold must be positive")

// Config carries the expiration thresholds for one run: a mandatory
// default plus per-table overrides. Built once by the caller and
// passed by reference to each table's evaluation.
type Config struct {
	Default   time.Duration
	Overrides map[string]time.Duration
}

// Threshold returns the effective expiration threshold for table:
// the override when one exists, the default otherwise.
func (c *Config) Threshold(table string) time.Duration {
	if d, ok := c.Overrides[table]; ok {
		return d
	}
	return c.Default
}

// Validate rejects configurations that would leave any table without
// a positive threshold.
func (c *Config) Validate() error {
	if c.Default <= 0 {
		return fmt.Errorf("default %w (got %s)", ErrInvalidThreshold, c.Default)
	}
	for name, d := range c.Overrides {
		if d <= 0 {
			return fmt.Errorf("table %s: %w (got %s)", name, ErrInvalidThreshold, d)
		}
	}
	return nil
}

// Result is the classification of one table's entries. Expired and
// Retained partition the well-formed input: every valid entry lands
// in exactly one of the two. Rejected holds entries whose last-seen
// timestamp was unreadable; they are surfaced to the caller instead
// of being silently dropped, and never stop the rest of the table
// from being classified.
type Result struct {
	Expired  []firewall.Entry
	Retained []firewall.Entry
	Rejected []firewall.Entry
}

// Classify splits entries into expired and retained as of ref.
// An entry's age is ref minus its last-seen time, floored at zero
// (a timestamp after ref is not an error, just age 0). An entry
// expires only when strictly older than threshold: age exactly at
// the threshold is retained.
func Classify(entries []firewall.Entry, threshold time.Duration, ref time.Time) (*Result, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w (got %s)", ErrInvalidThreshold, threshold)
	}
	res := &Result{}
	for _, e := range entries {
		if !e.Valid() {
			res.Rejected = append(res.Rejected, e)
			continue
		}
		age := ref.Sub(e.LastSeen)
		if age < 0 {
			age = 0
		}
		if age > threshold {
			res.Expired = append(res.Expired, e)
		} else {
			res.Retained = append(res.Retained, e)
		}
	}
	return res, nil
}
