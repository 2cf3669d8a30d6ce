package logpile

import (
	"bytes"
	"encoding/binary"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// JournaldTarget submits entries to systemd-journald over its native
// datagram protocol. Structured-data elements are flattened into journal
// fields named ELEMENT_PARAM, uppercased and sanitized to the journal's
// field-name alphabet.
type JournaldTarget struct {
	targetBase
	mu        sync.Mutex
	conn      net.Conn
	messageID string
}

// OpenJournaldTarget connects to the local journald socket. Options may
// override the socket path, supply a DialFunc, and attach a MESSAGE_ID
// catalog identifier stamped onto every record.
func OpenJournaldTarget(name string, opts *Options) (*JournaldTarget, error) {
	if opts == nil {
		opts = &Options{}
	}

	socketPath := opts.SocketPath
	if socketPath == emptyString {
		socketPath = journaldSocketPath
	}

	dial := opts.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("unixgram", socketPath)
	if err != nil {
		return nil, raisePlatformFailure(KeyConnectSocketFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	messageID := emptyString
	if opts.MessageID != uuid.Nil {
		// journald catalog ids are the 32 hex digits without dashes.
		messageID = strings.ReplaceAll(opts.MessageID.String(), "-", "")
	}

	target := &JournaldTarget{
		targetBase: newTargetBase(TargetKindJournald, name),
		conn:       conn,
		messageID:  messageID,
	}
	diag.Debug().Str("target", name).Str("socket", socketPath).Msg("journald target opened")
	recordSuccess()
	return target, nil
}

// Send encodes the entry as a native journald record and transmits it as
// one datagram.
func (t *JournaldTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	record := encodeJournaldRecord(e, t.messageID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	sent, err := t.conn.Write(record)
	if err != nil {
		return sent, raisePlatformFailure(KeyJournaldSendFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	recordSuccess()
	return sent, nil
}

// Close releases the journald socket. Re-closing is a detectable no-op.
func (t *JournaldTarget) Close() error {
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

// encodeJournaldRecord renders the native protocol payload: one
// FIELD=value line per field, switching to the length-prefixed binary form
// for values containing newlines.
func encodeJournaldRecord(e *Entry, messageID string) []byte {
	buf := &bytes.Buffer{}

	appendJournaldField(buf, "PRIORITY", strconv.Itoa(int(e.severity)))
	appendJournaldField(buf, "SYSLOG_FACILITY", strconv.Itoa(int(e.facility)))
	if e.appName != emptyString {
		appendJournaldField(buf, "SYSLOG_IDENTIFIER", e.appName)
	}
	if e.msgID != emptyString {
		appendJournaldField(buf, "SYSLOG_MSGID", e.msgID)
	}
	if messageID != emptyString {
		appendJournaldField(buf, "MESSAGE_ID", messageID)
	}
	appendJournaldField(buf, "MESSAGE", e.message)

	for _, element := range e.elements {
		for _, param := range element.params {
			name := journaldFieldName(element.name, param.name)
			appendJournaldField(buf, name, param.Value())
		}
	}

	return buf.Bytes()
}

func appendJournaldField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	if strings.ContainsRune(value, '\n') {
		// Binary-safe form: NAME \n le64(len) value \n.
		buf.WriteByte('\n')
		var length [8]byte
		binary.LittleEndian.PutUint64(length[:], uint64(len(value)))
		buf.Write(length[:])
		buf.WriteString(value)
		buf.WriteByte('\n')
		return
	}
	buf.WriteByte('=')
	buf.WriteString(value)
	buf.WriteByte('\n')
}

// journaldFieldName flattens an element/param pair into a journal field
// name: uppercase ASCII, digits and underscores only, and a leading letter.
func journaldFieldName(elementName, paramName string) string {
	flattened := elementName + "_" + paramName
	mapped := make([]byte, 0, len(flattened))
	for i := 0; i < len(flattened); i++ {
		c := flattened[i]
		switch {
		case c >= 'a' && c <= 'z':
			mapped = append(mapped, c-'a'+'A')
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_':
			mapped = append(mapped, c)
		default:
			mapped = append(mapped, '_')
		}
	}
	if len(mapped) == 0 || (mapped[0] >= '0' && mapped[0] <= '9') || mapped[0] == '_' {
		mapped = append([]byte("SD_"), mapped...)
	}
	return string(mapped)
}
