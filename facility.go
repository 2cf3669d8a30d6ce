package logpile

// Facility is an RFC 5424 facility code, in the registered range 0 through 23.
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLpr
	FacilityNews
	FacilityUucp
	FacilityCron
	FacilityAuthpriv
	FacilityFtp
	FacilityNtp
	FacilityAudit
	FacilityAlert
	FacilityCron2
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var facilityNames = [...]string{
	"kern",
	"user",
	"mail",
	"daemon",
	"auth",
	"syslog",
	"lpr",
	"news",
	"uucp",
	"cron",
	"authpriv",
	"ftp",
	"ntp",
	"audit",
	"alert",
	"cron2",
	"local0",
	"local1",
	"local2",
	"local3",
	"local4",
	"local5",
	"local6",
	"local7",
}

// Valid reports whether the facility is within the registered RFC 5424 range.
func (f Facility) Valid() bool {
	return f >= FacilityKern && f <= FacilityLocal7
}

func (f Facility) String() string {
	if !f.Valid() {
		return "invalid facility"
	}
	return facilityNames[f]
}

// FacilityFromPrival extracts the facility from a priority value. It never
// fails; range validation happens at entry mutation time.
func FacilityFromPrival(prival int) Facility {
	return Facility(prival >> 3)
}

// FacilityFromString parses a facility name, case-sensitive.
func FacilityFromString(name string) (Facility, error) {
	for value, candidate := range facilityNames {
		if candidate == name {
			recordSuccess()
			return Facility(value), nil
		}
	}
	return 0, raiseInvalidFacility(-1)
}
