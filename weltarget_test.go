package logpile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventLogSink records reported events in memory.
type fakeEventLogSink struct {
	events    []reportedEvent
	reportErr error
	closeErr  error
	closed    bool
}

type reportedEvent struct {
	recordType uint16
	category   uint16
	eventID    uint32
	insertions []string
}

func (s *fakeEventLogSink) ReportEvent(recordType uint16, category uint16, eventID uint32, insertions []string) error {
	if s.reportErr != nil {
		return s.reportErr
	}
	s.events = append(s.events, reportedEvent{
		recordType: recordType,
		category:   category,
		eventID:    eventID,
		insertions: insertions,
	})
	return nil
}

func (s *fakeEventLogSink) Close() error {
	if s.closeErr != nil {
		return s.closeErr
	}
	s.closed = true
	return nil
}

func TestWelTarget_Send(t *testing.T) {
	t.Run("derived values and resolved insertions reach the sink", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)

		entry, err := NewEntry(FacilityUser, SeverityWarning, "app", "", "disk nearly full")
		require.NoError(t, err)
		require.NoError(t, entry.SetWelInsertionStrings("volume C:", "91%"))

		size, err := target.Send(entry)
		require.NoError(t, err)
		assert.Equal(t, len("volume C:")+len("91%"), size)

		require.Len(t, sink.events, 1)
		event := sink.events[0]
		assert.Equal(t, WelTypeWarning, event.recordType)
		assert.Equal(t, uint16(SeverityWarning)+1, event.category)
		assert.Equal(t, uint32(48), event.eventID)
		assert.Equal(t, []string{"volume C:", "91%"}, event.insertions)
	})

	t.Run("explicit overrides are reported verbatim", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "", "msg")
		require.NoError(t, err)
		entry.SetWelCategory(9).SetWelEventID(1234).SetWelType(WelTypeAuditSuccess)

		_, err = target.Send(entry)
		require.NoError(t, err)

		require.Len(t, sink.events, 1)
		assert.Equal(t, uint16(9), sink.events[0].category)
		assert.Equal(t, uint32(1234), sink.events[0].eventID)
		assert.Equal(t, WelTypeAuditSuccess, sink.events[0].recordType)
	})

	t.Run("param-backed insertions resolve at send time", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "", "msg")
		require.NoError(t, err)
		param, err := NewParam("user", "alice")
		require.NoError(t, err)
		require.NoError(t, entry.SetWelInsertionParam(0, param))

		param.SetValue("bob")
		_, err = target.Send(entry)
		require.NoError(t, err)

		require.Len(t, sink.events, 1)
		assert.Equal(t, []string{"bob"}, sink.events[0].insertions)
	})

	t.Run("sink failure becomes a platform failure", func(t *testing.T) {
		sink := &fakeEventLogSink{reportErr: errors.New("RPC_S_SERVER_UNAVAILABLE")}
		target := openWelTargetWithSink("TestSource", sink)

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "", "msg")
		require.NoError(t, err)
		_, err = target.Send(entry)
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindPlatformFailure, libErr.Kind)
		assert.Equal(t, KeyWelEventReportFailed, libErr.Key())
	})
}

func TestWelTarget_Close(t *testing.T) {
	t.Run("close deregisters the source", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)
		require.NoError(t, target.Close())
		assert.True(t, sink.closed)
		assert.False(t, target.IsOpen())
	})

	t.Run("failed deregistration leaves the target open", func(t *testing.T) {
		sink := &fakeEventLogSink{closeErr: errors.New("handle busy")}
		target := openWelTargetWithSink("TestSource", sink)

		require.Error(t, target.Close())
		assert.True(t, target.IsOpen())

		sink.closeErr = nil
		require.NoError(t, target.Close())
		assert.False(t, target.IsOpen())
		assert.True(t, sink.closed)
	})

	t.Run("double close is an error", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)
		require.NoError(t, target.Close())
		require.Error(t, target.Close())
	})

	t.Run("send after close fails", func(t *testing.T) {
		sink := &fakeEventLogSink{}
		target := openWelTargetWithSink("TestSource", sink)
		require.NoError(t, target.Close())

		entry, err := NewEntry(FacilityUser, SeverityInfo, "app", "", "msg")
		require.NoError(t, err)
		_, err = target.Send(entry)
		require.Error(t, err)
		assert.Empty(t, sink.events)
	})
}
