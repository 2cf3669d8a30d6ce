package logpile

import (
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// TargetKind identifies one of the closed set of delivery backends.
type TargetKind int

const (
	TargetKindFile TargetKind = iota
	TargetKindStream
	TargetKindUnixSocket
	TargetKindNetwork
	TargetKindJournald
	TargetKindWindowsEventLog
	TargetKindFunction
	TargetKindNull
)

var targetKindNames = map[TargetKind]string{
	TargetKindFile:            "file",
	TargetKindStream:          "stream",
	TargetKindUnixSocket:      "unix socket",
	TargetKindNetwork:         "network",
	TargetKindJournald:        "journald",
	TargetKindWindowsEventLog: "windows event log",
	TargetKindFunction:        "function",
	TargetKindNull:            "null",
}

func (k TargetKind) String() string {
	name, known := targetKindNames[k]
	if !known {
		return "unknown target kind"
	}
	return name
}

// Target is a delivery endpoint for entries. A target owns its backend
// handle exclusively until closed; IsOpen reports false only after the
// backend's OS resources have been released. Two targets wrapping the same
// underlying OS resource are not coordinated by this library.
type Target interface {
	Kind() TargetKind
	Name() string
	IsOpen() bool
	// Send encodes the entry into the target's record format and performs
	// the I/O, returning the number of bytes submitted. Failures are
	// returned and also recorded in the calling goroutine's error channel.
	Send(e *Entry) (int, error)
	Close() error
}

// DialFunc opens the connection for a network or socket target. Supplying
// one in Options replaces net.Dial, which is how the tests substitute a
// counting transport.
type DialFunc func(network, address string) (net.Conn, error)

// LogFunc handles entries sent to a function target.
type LogFunc func(target Target, e *Entry) error

// Options is the closed set of recognized target configuration, validated at
// open time. Each kind reads only its own fields; unrelated fields are
// ignored.
type Options struct {
	// Network targets.
	Port            string `validate:"omitempty,numeric,max=5"`
	MaxMessageSize  int    `validate:"omitempty,gte=256,lte=65507"`
	NetworkProtocol string `validate:"omitempty,oneof=ip4 ip6"`
	Transport       string `validate:"omitempty,oneof=udp tcp"`
	Dial            DialFunc

	// File targets.
	Truncate         bool
	Rotate           bool
	RotateMaxSizeMB  int `validate:"gte=0"`
	RotateMaxBackups int `validate:"gte=0"`
	RotateMaxAgeDays int `validate:"gte=0"`

	// Stream targets.
	Writer io.Writer

	// Function targets.
	Handler LogFunc

	// Journald targets.
	SocketPath string
	MessageID  uuid.UUID
}

// Open creates a target of the given kind for the given destination. The
// meaning of destination is per kind: a path for file and unix socket
// targets, host[:port] for network targets, the source name for the Windows
// Event Log, and a display name for the rest.
func Open(kind TargetKind, destination string, opts *Options) (Target, error) {
	if opts == nil {
		opts = &Options{}
	}

	switch kind {
	case TargetKindFile:
		return OpenFileTarget(destination, opts)
	case TargetKindStream:
		return OpenStreamTarget(destination, opts.Writer)
	case TargetKindUnixSocket:
		return OpenSocketTarget(destination, opts)
	case TargetKindNetwork:
		switch opts.Transport {
		case "udp", emptyString:
			return OpenUDPTarget(destination, opts)
		case "tcp":
			return OpenTCPTarget(destination, opts)
		default:
			return nil, raiseTransportProtocolUnsupported()
		}
	case TargetKindJournald:
		return OpenJournaldTarget(destination, opts)
	case TargetKindWindowsEventLog:
		return OpenWelTarget(destination, opts)
	case TargetKindFunction:
		return OpenFunctionTarget(destination, opts.Handler)
	case TargetKindNull:
		return OpenNullTarget(destination)
	default:
		return nil, raiseUnsupportedTarget(KeyUnsupportedTarget)
	}
}

// targetBase carries the state common to every backend: identity, the open
// flag, and the header fields stamped onto RFC 5424 records.
type targetBase struct {
	name     string
	kind     TargetKind
	open     atomic.Bool
	hostname string
	procID   string
}

func newTargetBase(kind TargetKind, name string) targetBase {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = emptyString
	}

	base := targetBase{
		name:     name,
		kind:     kind,
		hostname: hostname,
		procID:   strconv.Itoa(os.Getpid()),
	}
	base.open.Store(true)
	return base
}

func (t *targetBase) Kind() TargetKind { return t.kind }

func (t *targetBase) Name() string { return t.name }

func (t *targetBase) IsOpen() bool { return t.open.Load() }

// format renders the entry in RFC 5424 form with this target's header fields
// and the current time.
func (t *targetBase) format(e *Entry) []byte {
	return formatRFC5424(e, t.hostname, t.procID, time.Now())
}

// raiseTargetClosed reports a send or close on a target whose resources are
// already released.
func (t *targetBase) raiseTargetClosed() *Error {
	return recordFailure(&Error{
		Kind:   ErrorKindUnsupportedTarget,
		key:    KeyCloseUnsupportedTarget,
		detail: t.kind.String(),
	})
}

// resolveDestination splits host[:port] and applies the configured or
// default syslog port.
func resolveDestination(destination, configuredPort string) (string, error) {
	if destination == emptyString {
		return emptyString, raiseNullArgument("destination")
	}

	host, port, err := net.SplitHostPort(destination)
	if err != nil {
		// No port in the destination; the whole string is the host.
		host = destination
		port = emptyString
	}
	if port == emptyString {
		port = configuredPort
	}
	if port == emptyString {
		port = defaultSyslogPort
	}
	return net.JoinHostPort(host, port), nil
}

// platformCode digs the numeric OS error value out of err for the error
// channel's code field, or -1 when there is none.
func platformCode(err error) int64 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int64(errno)
	}
	return -1
}
