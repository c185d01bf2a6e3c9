package domain

// Status is the derived lifecycle state of a SimulationUnit. It is never
// stored; it is recomputed from the unit's files and the accounting database
// on every pass.
type Status string

const (
	StatusNotSubmitted Status = "NOT_SUBMITTED"
	StatusPending      Status = "PENDING"
	StatusRunning      Status = "RUNNING"
	StatusCompleted    Status = "COMPLETED"
	StatusSoftFail     Status = "SOFT_FAIL"
	StatusHardFail     Status = "HARD_FAIL"
	StatusUnknown      Status = "UNKNOWN"
)

// SlurmState is a raw scheduler state string as reported by sacct,
// e.g. "COMPLETED" or "CANCELLED by 1234".
type SlurmState string

// Normalize strips trailing qualifiers, e.g. "CANCELLED by 1234" becomes
// "CANCELLED".
func (s SlurmState) Normalize() SlurmState {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}

// IsSuccessTerminal reports whether the scheduler considers the job finished
// cleanly. Scheduler success does not imply solver success; the classifier
// still checks the solver log for the completion marker.
func (s SlurmState) IsSuccessTerminal() bool {
	return s.Normalize() == "COMPLETED"
}

// IsFailureTerminal reports whether the scheduler considers the job dead.
func (s SlurmState) IsFailureTerminal() bool {
	switch s.Normalize() {
	case "FAILED", "CANCELLED", "TIMEOUT", "OUT_OF_MEMORY", "NODE_FAIL", "BOOT_FAIL", "DEADLINE":
		return true
	}
	return false
}

// IsLive reports whether the job is still queued or executing.
func (s SlurmState) IsLive() bool {
	switch s.Normalize() {
	case "PENDING", "RUNNING", "COMPLETING", "SUSPENDED", "REQUEUED":
		return true
	}
	return false
}

// LiveStatus maps a live scheduler state onto the status enumeration.
// Non-live states map to StatusUnknown.
func (s SlurmState) LiveStatus() Status {
	switch s.Normalize() {
	case "PENDING", "REQUEUED":
		return StatusPending
	case "RUNNING", "COMPLETING", "SUSPENDED":
		return StatusRunning
	}
	return StatusUnknown
}
