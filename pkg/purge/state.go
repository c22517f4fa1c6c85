package purge

// State is the user-visible classification of a run.
type State string

const (
	// StateScanFailed means the catalog or usage scan failed; nothing was
	// resolved.
	StateScanFailed State = "scan-failed"

	// StateNothingInactive means the scan succeeded and found no candidates.
	StateNothingInactive State = "nothing-inactive"

	// StatePending means candidates were found and not yet purged.
	StatePending State = "pending"

	// StateCompleted means every candidate was deleted and verified.
	StateCompleted State = "completed"

	// StatePartial means some candidates were deleted and some failed.
	StatePartial State = "partial"

	// StateAllFailed means every deletion attempt failed.
	StateAllFailed State = "all-failed"

	// StateDeclined means the operator declined the deletion.
	StateDeclined State = "declined"

	// StateDryRun means candidates were listed without deleting.
	StateDryRun State = "dry-run"
)

// States lists every run state.
func States() []State {
	return []State{
		StateScanFailed, StateNothingInactive, StatePending, StateCompleted,
		StatePartial, StateAllFailed, StateDeclined, StateDryRun,
	}
}

// Failed reports whether the state should make the CLI exit non-zero.
func (s State) Failed() bool {
	return s == StateScanFailed || s == StateAllFailed
}

// Message returns the operator-facing summary for the state.
func (s State) Message() string {
	switch s {
	case StateScanFailed:
		return "Could not scan the drawing; no blocks were analyzed."
	case StateNothingInactive:
		return "No inactive blocks found."
	case StatePending:
		return "Inactive blocks found."
	case StateCompleted:
		return "All inactive blocks were deleted."
	case StatePartial:
		return "Some blocks could not be deleted."
	case StateAllFailed:
		return "No blocks were deleted; every attempt failed."
	case StateDeclined:
		return "Deletion cancelled."
	case StateDryRun:
		return "Dry run; no blocks were deleted."
	default:
		return string(s)
	}
}
