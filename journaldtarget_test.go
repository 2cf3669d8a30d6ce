package logpile

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournaldTarget(t *testing.T, conn *fakeConn, opts *Options) *JournaldTarget {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	opts.Dial = dialTo(conn)
	target, err := OpenJournaldTarget("journald-test", opts)
	require.NoError(t, err)
	return target
}

func TestJournaldTarget_Send(t *testing.T) {
	t.Run("record carries the syslog fields", func(t *testing.T) {
		conn := &fakeConn{}
		target := openTestJournaldTarget(t, conn, nil)
		defer target.Close()

		entry, err := NewEntry(FacilityDaemon, SeverityWarning, "backup", "BK01", "disk almost full")
		require.NoError(t, err)

		sent, err := target.Send(entry)
		require.NoError(t, err)

		require.Len(t, conn.writes, 1)
		record := string(conn.writes[0])
		assert.Equal(t, len(conn.writes[0]), sent)

		lines := strings.Split(strings.TrimSuffix(record, "\n"), "\n")
		assert.Contains(t, lines, "PRIORITY=4")
		assert.Contains(t, lines, "SYSLOG_FACILITY=3")
		assert.Contains(t, lines, "SYSLOG_IDENTIFIER=backup")
		assert.Contains(t, lines, "SYSLOG_MSGID=BK01")
		assert.Contains(t, lines, "MESSAGE=disk almost full")
	})

	t.Run("empty identifier and msgid are omitted", func(t *testing.T) {
		conn := &fakeConn{}
		target := openTestJournaldTarget(t, conn, nil)
		defer target.Close()

		entry, err := NewEntry(FacilityUser, SeverityInfo, "", "", "plain")
		require.NoError(t, err)

		_, err = target.Send(entry)
		require.NoError(t, err)

		record := string(conn.writes[0])
		assert.NotContains(t, record, "SYSLOG_IDENTIFIER")
		assert.NotContains(t, record, "SYSLOG_MSGID")
		assert.NotContains(t, record, "MESSAGE_ID")
	})

	t.Run("element params become flattened fields", func(t *testing.T) {
		conn := &fakeConn{}
		target := openTestJournaldTarget(t, conn, nil)
		defer target.Close()

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "ID", "with data")
		require.NoError(t, err)
		element, err := NewElement("request")
		require.NoError(t, err)
		_, err = element.AddParam("path", "/v1/items")
		require.NoError(t, err)
		_, err = element.AddParam("method", "GET")
		require.NoError(t, err)
		require.NoError(t, entry.AddElement(element))

		_, err = target.Send(entry)
		require.NoError(t, err)

		record := string(conn.writes[0])
		assert.Contains(t, record, "REQUEST_PATH=/v1/items\n")
		assert.Contains(t, record, "REQUEST_METHOD=GET\n")
	})

	t.Run("message id is stamped without dashes", func(t *testing.T) {
		conn := &fakeConn{}
		catalog := uuid.MustParse("6c3e9b44-31b2-4d42-a66e-0123456789ab")
		target := openTestJournaldTarget(t, conn, &Options{MessageID: catalog})
		defer target.Close()

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "ID", "catalogued")
		require.NoError(t, err)

		_, err = target.Send(entry)
		require.NoError(t, err)

		assert.Contains(t, string(conn.writes[0]), "MESSAGE_ID=6c3e9b4431b24d42a66e0123456789ab\n")
	})

	t.Run("newline values use the length-prefixed form", func(t *testing.T) {
		conn := &fakeConn{}
		target := openTestJournaldTarget(t, conn, nil)
		defer target.Close()

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "ID", "line one\nline two")
		require.NoError(t, err)

		_, err = target.Send(entry)
		require.NoError(t, err)

		record := conn.writes[0]
		marker := []byte("MESSAGE\n")
		start := strings.Index(string(record), string(marker))
		require.GreaterOrEqual(t, start, 0)

		lengthField := record[start+len(marker) : start+len(marker)+8]
		length := binary.LittleEndian.Uint64(lengthField)
		assert.Equal(t, uint64(len("line one\nline two")), length)

		valueStart := start + len(marker) + 8
		value := record[valueStart : valueStart+int(length)]
		assert.Equal(t, "line one\nline two", string(value))
		assert.Equal(t, byte('\n'), record[valueStart+int(length)])
	})

	t.Run("write failure is a platform failure", func(t *testing.T) {
		conn := &fakeConn{writeErr: errors.New("connection refused")}
		target := openTestJournaldTarget(t, conn, nil)
		defer target.Close()

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "ID", "doomed")
		require.NoError(t, err)

		_, err = target.Send(entry)
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindPlatformFailure, libErr.Kind)
	})

	t.Run("send after close fails", func(t *testing.T) {
		conn := &fakeConn{}
		target := openTestJournaldTarget(t, conn, nil)
		require.NoError(t, target.Close())
		require.NoError(t, target.Close())

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "ID", "late")
		require.NoError(t, err)

		_, err = target.Send(entry)
		require.Error(t, err)
		assert.True(t, conn.closed)
	})
}

func TestJournaldFieldName(t *testing.T) {
	cases := []struct {
		element  string
		param    string
		expected string
	}{
		{"request", "path", "REQUEST_PATH"},
		{"Request", "Path", "REQUEST_PATH"},
		{"meta", "retry-count", "META_RETRY_COUNT"},
		{"origin@32473", "ip", "ORIGIN_32473_IP"},
		{"9lives", "cat", "SD_9LIVES_CAT"},
		{"_hidden", "x", "SD__HIDDEN_X"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, journaldFieldName(tc.element, tc.param), "%s/%s", tc.element, tc.param)
	}
}
