package logpile

import (
	"net"
	"sync"
)

// SocketTarget sends RFC 5424 records to a local syslog daemon over a UNIX
// datagram socket.
type SocketTarget struct {
	targetBase
	mu   sync.Mutex
	conn net.Conn
}

// OpenSocketTarget connects to the UNIX datagram socket at path. A DialFunc
// in opts replaces the default dialer.
func OpenSocketTarget(path string, opts *Options) (*SocketTarget, error) {
	if path == emptyString {
		return nil, raiseNullArgument("socket path")
	}
	if opts == nil {
		opts = &Options{}
	}

	dial := opts.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("unixgram", path)
	if err != nil {
		return nil, raisePlatformFailure(KeyConnectSocketFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	target := &SocketTarget{
		targetBase: newTargetBase(TargetKindUnixSocket, path),
		conn:       conn,
	}
	diag.Debug().Str("target", path).Msg("unix socket target opened")
	recordSuccess()
	return target, nil
}

// Send transmits the entry as one datagram.
func (t *SocketTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	message := t.format(e)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	sent, err := t.conn.Write(message)
	if err != nil {
		return sent, raisePlatformFailure(KeySendMessageFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	recordSuccess()
	return sent, nil
}

// Close releases the socket. Re-closing is a detectable no-op.
func (t *SocketTarget) Close() error {
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
	recordSuccess()
	return nil
}
