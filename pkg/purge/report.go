package purge

import (
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// Reason tags why a deletion attempt failed.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonLookupError        Reason = "lookup-error"
	ReasonNotDeletable       Reason = "not-deletable"
	ReasonVerificationFailed Reason = "verification-failed"
	ReasonEnumerationError   Reason = "enumeration-error"
	ReasonSessionUnavailable Reason = "session-unavailable"
)

// Reasons lists every failure tag.
func Reasons() []Reason {
	return []Reason{
		ReasonLookupError,
		ReasonNotDeletable,
		ReasonVerificationFailed,
		ReasonEnumerationError,
		ReasonSessionUnavailable,
	}
}

// reasonFor picks the tag for err, preferring the code the session reported
// over fallback.
func reasonFor(err error, fallback Reason) Reason {
	switch drawingerrors.CodeOf(err) {
	case drawingerrors.ErrSessionUnavailable:
		return ReasonSessionUnavailable
	case drawingerrors.ErrEnumerationFailed:
		return ReasonEnumerationError
	default:
		return fallback
	}
}

// Outcome is the result of one deletion attempt.
type Outcome struct {
	Name      string `json:"name" yaml:"name"`
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	Reason    Reason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Report aggregates the outcomes of a Purge call.
type Report struct {
	// DeletedCount is the number of verified deletions.
	DeletedCount int `json:"deleted_count" yaml:"deleted_count"`

	// Failed holds the failed outcomes in attempt order.
	Failed []Outcome `json:"failed" yaml:"failed"`

	// Outcomes holds every outcome in attempt order.
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

func newReport(n int) *Report {
	return &Report{
		Failed:   []Outcome{},
		Outcomes: make([]Outcome, 0, n),
	}
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded {
		r.DeletedCount++
	} else {
		r.Failed = append(r.Failed, o)
	}
}

// Attempted returns the number of names processed.
func (r *Report) Attempted() int {
	return len(r.Outcomes)
}

// Deleted returns the names whose deletion was verified, in attempt order.
func (r *Report) Deleted() []string {
	names := make([]string, 0, r.DeletedCount)
	for _, o := range r.Outcomes {
		if o.Succeeded {
			names = append(names, o.Name)
		}
	}
	return names
}

// FailuresByReason counts failed outcomes per reason tag.
func (r *Report) FailuresByReason() map[Reason]int {
	counts := make(map[Reason]int)
	for _, o := range r.Failed {
		counts[o.Reason]++
	}
	return counts
}

// State classifies the report: completed when every attempt succeeded,
// all-failed when none did, partial otherwise. An empty report is
// nothing-inactive.
func (r *Report) State() State {
	switch {
	case r == nil || len(r.Outcomes) == 0:
		return StateNothingInactive
	case len(r.Failed) == 0:
		return StateCompleted
	case r.DeletedCount == 0:
		return StateAllFailed
	default:
		return StatePartial
	}
}
