package app

import (
	"fmt"
	"strings"
)

// Mode selects how identities authenticate and how assets are discovered.
type Mode string

const (
	// ModeKey uses static API keys and diffs the person's assets against
	// the album.
	ModeKey Mode = "key"
	// ModeSession logs in with email and password and walks the timeline.
	ModeSession Mode = "session"
)

// UnmarshalText implements toml.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch mode := Mode(strings.ToLower(string(text))); mode {
	case ModeKey, ModeSession, "":
		*m = mode
		return nil
	}
	return fmt.Errorf("unsupported mode %q, expected one of %v", string(text), []Mode{ModeKey, ModeSession})
}

// FailurePolicy decides what happens when a pass for an identity fails.
type FailurePolicy string

const (
	// PolicyExit stops processing and terminates the process.
	PolicyExit FailurePolicy = "exit"
	// PolicySkip logs the failure and continues with the next identity.
	PolicySkip FailurePolicy = "skip"
)

// UnmarshalText implements toml.TextUnmarshaler.
func (p *FailurePolicy) UnmarshalText(text []byte) error {
	switch policy := FailurePolicy(strings.ToLower(string(text))); policy {
	case PolicyExit, PolicySkip, "":
		*p = policy
		return nil
	}
	return fmt.Errorf("unsupported failure policy %q, expected one of %v", string(text), []FailurePolicy{PolicyExit, PolicySkip})
}

// defaultPolicy returns the failure policy each mode has always had: API key
// passes are fatal, session passes are skipped.
func defaultPolicy(mode Mode) FailurePolicy {
	if mode == ModeSession {
		return PolicySkip
	}
	return PolicyExit
}
