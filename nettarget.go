package logpile

import (
	"net"
	"sync"
)

// NetworkTarget sends RFC 5424 records to a remote collector over UDP or
// TCP. UDP sends are bounded by MaxMessageSize and checked before the
// transmit call, so an oversized message never results in a partial
// datagram. TCP writes retry until the whole record is on the wire or a
// hard error occurs.
type NetworkTarget struct {
	targetBase
	mu             sync.Mutex
	conn           net.Conn
	transport      string
	maxMessageSize int
}

// OpenUDPTarget opens a UDP target for destination, a host[:port] string.
// The port defaults to the configured or standard syslog port.
func OpenUDPTarget(destination string, opts *Options) (*NetworkTarget, error) {
	return openNetworkTarget(destination, "udp", opts)
}

// OpenTCPTarget opens a TCP stream target for destination.
func OpenTCPTarget(destination string, opts *Options) (*NetworkTarget, error) {
	return openNetworkTarget(destination, "tcp", opts)
}

func openNetworkTarget(destination, transport string, opts *Options) (*NetworkTarget, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	address, err := resolveDestination(destination, opts.Port)
	if err != nil {
		return nil, err
	}

	network := transport
	switch opts.NetworkProtocol {
	case emptyString:
	case "ip4":
		network += "4"
	case "ip6":
		network += "6"
	default:
		return nil, raiseNetworkProtocolUnsupported()
	}

	dial := opts.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial(network, address)
	if err != nil {
		return nil, raisePlatformFailure(KeyConnectSocketFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	maxMessageSize := 0
	if transport == "udp" {
		maxMessageSize = opts.MaxMessageSize
		if maxMessageSize == 0 {
			maxMessageSize = defaultUDPMaxMessageSize
		}
	}

	target := &NetworkTarget{
		targetBase:     newTargetBase(TargetKindNetwork, destination),
		conn:           conn,
		transport:      transport,
		maxMessageSize: maxMessageSize,
	}
	diag.Debug().
		Str("target", destination).
		Str("transport", transport).
		Int("max_message_size", maxMessageSize).
		Msg("network target opened")
	recordSuccess()
	return target, nil
}

// MaxMessageSize returns the datagram size bound, or zero for TCP targets.
func (t *NetworkTarget) MaxMessageSize() int {
	return t.maxMessageSize
}

// Send encodes and transmits the entry. UDP messages larger than the
// configured bound fail with MessageTooBigForDatagram without any transport
// write having been attempted.
func (t *NetworkTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	message := t.format(e)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	if t.transport == "udp" {
		if len(message) > t.maxMessageSize {
			return 0, raiseMessageTooBig(len(message))
		}
		sent, err := t.conn.Write(message)
		if err != nil {
			return sent, raisePlatformFailure(KeySendMessageFailed, platformCode(err), KeyErrnoCodeType, err)
		}
		recordSuccess()
		return sent, nil
	}

	// Stream transport: write until the full record is sent.
	total := 0
	for total < len(message) {
		sent, err := t.conn.Write(message[total:])
		total += sent
		if err != nil {
			diag.Debug().Str("target", t.name).Int("sent", total).Err(err).Msg("stream send failed")
			return total, raisePlatformFailure(KeySendMessageFailed, platformCode(err), KeyErrnoCodeType, err)
		}
	}

	recordSuccess()
	return total, nil
}

// Close releases the connection. Re-closing is a detectable no-op.
func (t *NetworkTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		recordSuccess()
		return nil
	}

	if err := t.conn.Close(); err != nil {
		return raisePlatformFailure(KeyConnectSocketFailed, platformCode(err), KeyErrnoCodeType, err)
	}
	t.open.Store(false)
	diag.Debug().Str("target", t.name).Msg("network target closed")
	recordSuccess()
	return nil
}
