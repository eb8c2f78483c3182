package model

import (
	"fmt"
	"strings"
)

// MisfirePolicy decides what the scheduler does with a fire that is later than the misfire threshold.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type MisfirePolicy string

const (
	// MisfirePolicyFireOnce fires a single coalesced execution for any number of missed fires.
	MisfirePolicyFireOnce MisfirePolicy = "fire_once"
	// MisfirePolicySkip advances the schedule without firing.
	MisfirePolicySkip MisfirePolicy = "skip"
)

// Valid returns true if the policy is known.
func (p MisfirePolicy) Valid() bool {
	return p == MisfirePolicyFireOnce || p == MisfirePolicySkip
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (p *MisfirePolicy) UnmarshalText(text []byte) error {
	v := MisfirePolicy(strings.ToLower(strings.TrimSpace(string(text))))
	if v == "" {
		*p = MisfirePolicyFireOnce
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("invalid MisfirePolicy: %q", v)
	}
	*p = v
	return nil
}
