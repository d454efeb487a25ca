package domain

import "time"

// Outcome is how a single yt-dlp invocation ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure         // process exited non-zero
	OutcomeTimeout         // deadline expired, child force-killed
)

// AttemptResult captures the outcome of one download attempt. Created per
// attempt, never mutated afterward.
type AttemptResult struct {
	Outcome     Outcome
	ExitCode    int
	Diagnostics string // combined stdout+stderr, opaque until classification
	Elapsed     time.Duration
	Client      Client
}

// Succeeded reports whether the attempt completed the download.
func (r AttemptResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Session tracks retry state across the attempts of a single download
// request. Sessions are value types: transitions return an updated copy
// instead of mutating in place, so the orchestrator's transition function
// stays pure.
type Session struct {
	Active          Client
	Tried           []Client
	FallbackEnabled bool
	MaxAttempts     int
}

// NewSession starts a session on the given client with an empty tried-list.
func NewSession(start Client, fallbackEnabled bool, maxAttempts int) Session {
	return Session{
		Active:          start,
		FallbackEnabled: fallbackEnabled,
		MaxAttempts:     maxAttempts,
	}
}

// HasTried reports whether the client was already attempted in this session.
func (s Session) HasTried(c Client) bool {
	for _, t := range s.Tried {
		if t == c {
			return true
		}
	}
	return false
}

// WithTried returns a copy with c appended to the tried-list. A client is
// never recorded twice.
func (s Session) WithTried(c Client) Session {
	if s.HasTried(c) {
		return s
	}
	tried := make([]Client, len(s.Tried), len(s.Tried)+1)
	copy(tried, s.Tried)
	s.Tried = append(tried, c)
	return s
}

// WithActive returns a copy with the active client switched to next.
func (s Session) WithActive(next Client) Session {
	s.Active = next
	return s
}

// FirstUntried returns the first entry of catalog not yet in the
// tried-list, in catalog order.
func (s Session) FirstUntried(catalog []Client) (Client, bool) {
	for _, c := range catalog {
		if !s.HasTried(c) {
			return c, true
		}
	}
	return "", false
}
