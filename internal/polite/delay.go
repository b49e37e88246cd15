package polite

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// DelayProfile names a pause range applied before every request.
type DelayProfile string

const (
	ProfileCautious   DelayProfile = "cautious"
	ProfileNormal     DelayProfile = "normal"
	ProfileAggressive DelayProfile = "aggressive"
	ProfileNone       DelayProfile = "none"
)

// ParseDelayProfile validates a profile name. Empty means normal.
func ParseDelayProfile(s string) (DelayProfile, error) {
	switch p := DelayProfile(s); p {
	case "":
		return ProfileNormal, nil
	case ProfileCautious, ProfileNormal, ProfileAggressive, ProfileNone:
		return p, nil
	default:
		return "", fmt.Errorf("unknown delay profile %q (want cautious, normal, aggressive or none)", s)
	}
}

// Delay adds randomized jitter between page requests.
type Delay struct {
	Min time.Duration
	Max time.Duration
}

// NewDelay creates a delay generator for the given profile.
func NewDelay(profile DelayProfile) *Delay {
	switch profile {
	case ProfileCautious:
		return &Delay{Min: 2 * time.Second, Max: 5 * time.Second}
	case ProfileAggressive:
		return &Delay{Min: 200 * time.Millisecond, Max: 800 * time.Millisecond}
	case ProfileNone:
		return &Delay{}
	default:
		return &Delay{Min: 500 * time.Millisecond, Max: 2 * time.Second}
	}
}

// Wait sleeps for a random duration within the configured range, at least floor.
func (d *Delay) Wait(ctx context.Context, floor time.Duration) error {
	pause := max(d.Next(), floor)
	if pause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(pause)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns a random pause in [Min, Max).
func (d *Delay) Next() time.Duration {
	if d.Min >= d.Max {
		return d.Min
	}
	return d.Min + time.Duration(rand.Int64N(int64(d.Max-d.Min)))
}
