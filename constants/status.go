package constants

// RecordStatus is the canonical status for an ingested resume record.
type RecordStatus string

// Stable values (these exact strings appear in logs and exports).
const (
	StatusPending    RecordStatus = "PENDING"    // appended, not yet claimed by the processor
	StatusProcessing RecordStatus = "PROCESSING" // claimed, extraction/upload in flight
	StatusSuccess    RecordStatus = "SUCCESS"    // terminal: fields extracted, file link resolved
	StatusError      RecordStatus = "ERROR"      // terminal: extraction pipeline failed
)

// IsTerminal reports whether no further transition is possible.
func (s RecordStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// CanTransition reports whether moving from s to next is a legal step.
// The only legal path is PENDING -> PROCESSING -> {SUCCESS|ERROR}.
func (s RecordStatus) CanTransition(next RecordStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusSuccess || next == StatusError
	default:
		return false
	}
}
