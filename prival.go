package logpile

// Prival combines a facility and severity into an RFC 5424 priority value.
// No validation is performed here; the entry mutators validate their inputs
// before recomputing the prival.
func Prival(facility Facility, severity Severity) int {
	return int(facility)<<3 | int(severity)
}
