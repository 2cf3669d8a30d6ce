package logpile

// Severity is an RFC 5424 severity code.
type Severity int

const (
	SeverityEmerg Severity = iota
	SeverityAlert
	SeverityCrit
	SeverityErr
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

var severityNames = [...]string{
	"emerg",
	"alert",
	"crit",
	"err",
	"warning",
	"notice",
	"info",
	"debug",
}

// Valid reports whether the severity is within the range RFC 5424 allows.
func (s Severity) Valid() bool {
	return s >= SeverityEmerg && s <= SeverityDebug
}

func (s Severity) String() string {
	if !s.Valid() {
		return "invalid severity"
	}
	return severityNames[s]
}

// SeverityFromPrival extracts the severity from a priority value. It never
// fails: any int yields the low three bits.
func SeverityFromPrival(prival int) Severity {
	return Severity(prival & 0x07)
}

// SeverityFromString parses a severity name as used in syslog.conf style
// configuration, case-sensitive.
func SeverityFromString(name string) (Severity, error) {
	for value, candidate := range severityNames {
		if candidate == name {
			recordSuccess()
			return Severity(value), nil
		}
	}
	return 0, raiseInvalidSeverity(-1)
}
