package logpile

// ErrorKind classifies a failure raised by this library. Kinds are stable
// identifiers: callers should branch on the kind rather than on rendered
// message text, which depends on the active locale.
type ErrorKind int

const (
	// ErrorKindInvalidArgument indicates a required argument was nil or empty.
	ErrorKindInvalidArgument ErrorKind = iota
	// ErrorKindIndexOutOfBounds indicates an index past the end of a collection.
	ErrorKindIndexOutOfBounds
	// ErrorKindDuplicateElement indicates an element name already present on an entry.
	ErrorKindDuplicateElement
	// ErrorKindElementNotFound indicates no element matched the requested name.
	ErrorKindElementNotFound
	// ErrorKindParamNotFound indicates no param matched the requested name.
	ErrorKindParamNotFound
	// ErrorKindInvalidFacility indicates a facility outside the RFC 5424 range.
	ErrorKindInvalidFacility
	// ErrorKindInvalidSeverity indicates a severity outside the RFC 5424 range.
	ErrorKindInvalidSeverity
	// ErrorKindMemoryAllocationFailure indicates an allocation could not complete.
	ErrorKindMemoryAllocationFailure
	// ErrorKindEncodingConversionFailure indicates a narrow/wide string conversion failed.
	ErrorKindEncodingConversionFailure
	// ErrorKindStringTooLong indicates a string exceeded a field's maximum length.
	ErrorKindStringTooLong
	// ErrorKindMessageTooBigForDatagram indicates an encoded message exceeded the
	// maximum datagram size of a UDP target.
	ErrorKindMessageTooBigForDatagram
	// ErrorKindUnsupportedTarget indicates an operation on a target kind that does
	// not support it, or a kind disabled on this platform.
	ErrorKindUnsupportedTarget
	// ErrorKindTargetAlreadyOpen indicates an open attempt on an open target.
	ErrorKindTargetAlreadyOpen
	// ErrorKindNetworkProtocolUnsupported indicates an unrecognized network protocol.
	ErrorKindNetworkProtocolUnsupported
	// ErrorKindTransportProtocolUnsupported indicates an unrecognized transport protocol.
	ErrorKindTransportProtocolUnsupported
	// ErrorKindPlatformFailure wraps a raw OS error code together with a
	// description of what the code means.
	ErrorKindPlatformFailure
)

var errorKindNames = map[ErrorKind]string{
	ErrorKindInvalidArgument:              "invalid argument",
	ErrorKindIndexOutOfBounds:             "index out of bounds",
	ErrorKindDuplicateElement:             "duplicate element",
	ErrorKindElementNotFound:              "element not found",
	ErrorKindParamNotFound:                "param not found",
	ErrorKindInvalidFacility:              "invalid facility",
	ErrorKindInvalidSeverity:              "invalid severity",
	ErrorKindMemoryAllocationFailure:      "memory allocation failure",
	ErrorKindEncodingConversionFailure:    "encoding conversion failure",
	ErrorKindStringTooLong:                "string too long",
	ErrorKindMessageTooBigForDatagram:     "message too big for datagram",
	ErrorKindUnsupportedTarget:            "unsupported target",
	ErrorKindTargetAlreadyOpen:            "target already open",
	ErrorKindNetworkProtocolUnsupported:   "network protocol unsupported",
	ErrorKindTransportProtocolUnsupported: "transport protocol unsupported",
	ErrorKindPlatformFailure:              "platform failure",
}

func (k ErrorKind) String() string {
	name, known := errorKindNames[k]
	if !known {
		return "unknown error kind"
	}
	return name
}
