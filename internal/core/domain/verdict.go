package domain

// ScanStatus is the three-way outcome of a scan attempt
type ScanStatus string

const (
	ScanClean    ScanStatus = "clean"
	ScanInfected ScanStatus = "infected"
	// ScanDegraded means no verdict could be produced (timeout, network
	// failure, malformed response). It is the designed fallback, not an
	// error: the caller commits to quarantine as pending_scan.
	ScanDegraded ScanStatus = "degraded"
)

// ScanVerdict is the classified result of one scan round-trip
type ScanVerdict struct {
	Status    ScanStatus
	Signature string
}

// UploadStatus maps the internal verdict to the publicly visible upload
// status; degraded surfaces as pending_scan.
func (v ScanVerdict) UploadStatus() UploadStatus {
	switch v.Status {
	case ScanClean:
		return StatusClean
	case ScanInfected:
		return StatusInfected
	default:
		return StatusPendingScan
	}
}
