package logpile

const (
	emptyString = ""

	// RFC 5424 field length limits.
	maxAppNameLength = 48
	maxMsgIDLength   = 32

	// defaultSyslogPort is used for network targets when the destination
	// carries no port of its own.
	defaultSyslogPort = "514"

	// defaultUDPMaxMessageSize keeps datagrams under the usual ethernet MTU
	// after IP and UDP headers.
	defaultUDPMaxMessageSize = 1472

	// journaldSocketPath is where systemd-journald accepts native protocol
	// datagrams.
	journaldSocketPath = "/run/systemd/journal/socket"
)

// EVENTLOG_* record type flags, as defined by the Windows Event Log API.
// They appear here rather than in a build-tagged file because the registry
// installation protocol writes them as the TypesSupported bitmask on every
// platform a registration can be staged from.
const (
	WelTypeSuccess      uint16 = 0x0000
	WelTypeError        uint16 = 0x0001
	WelTypeWarning      uint16 = 0x0002
	WelTypeInformation  uint16 = 0x0004
	WelTypeAuditSuccess uint16 = 0x0008
	WelTypeAuditFailure uint16 = 0x0010
)

// WelAllTypesSupported is the TypesSupported bitmask covering every event
// type, used by the default source installation.
const WelAllTypesSupported = uint32(WelTypeError) |
	uint32(WelTypeWarning) |
	uint32(WelTypeInformation) |
	uint32(WelTypeAuditSuccess) |
	uint32(WelTypeAuditFailure)
