package logpile

import "sync"

// eventLogSink is the OS collaborator behind a Windows Event Log target.
// The real binding registers an event source handle and reports through the
// ReportEvent API; tests substitute an in-memory sink.
type eventLogSink interface {
	ReportEvent(recordType uint16, category uint16, eventID uint32, insertions []string) error
	Close() error
}

// WelTarget delivers entries to the Windows Event Log. Category, event id
// and record type come from the entry's explicit overrides when set and from
// the severity/facility derivation otherwise; the insertion-string vector is
// resolved at send time, so param references reflect their current values.
type WelTarget struct {
	targetBase
	mu   sync.Mutex
	sink eventLogSink
}

// OpenWelTarget registers the named event source. On platforms without an
// event log this fails with an UnsupportedTarget error.
func OpenWelTarget(source string, opts *Options) (*WelTarget, error) {
	if source == emptyString {
		return nil, raiseNullArgument("source")
	}

	sink, err := newEventLogSink(source)
	if err != nil {
		return nil, err
	}

	recordSuccess()
	return openWelTargetWithSink(source, sink), nil
}

func openWelTargetWithSink(source string, sink eventLogSink) *WelTarget {
	return &WelTarget{
		targetBase: newTargetBase(TargetKindWindowsEventLog, source),
		sink:       sink,
	}
}

// Send reports the entry as one event log record. The returned size is the
// total byte length of the resolved insertion strings.
func (t *WelTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	recordType := e.WelType()
	category := e.WelCategory()
	eventID := e.WelEventID()
	insertions, err := e.wel.resolveInsertionStrings()
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	if err := t.sink.ReportEvent(recordType, category, eventID, insertions); err != nil {
		diag.Debug().Str("target", t.name).Err(err).Msg("event report failed")
		return 0, raisePlatformFailure(KeyWelEventReportFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}

	size := 0
	for _, text := range insertions {
		size += len(text)
	}

	recordSuccess()
	return size, nil
}

// Close deregisters the event source. The underlying handle supports only a
// single deregistration, so closing twice is a caller error rather than a
// no-op.
func (t *WelTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return t.raiseTargetClosed()
	}

	if err := t.sink.Close(); err != nil {
		return raisePlatformFailure(KeyWelEventReportFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	t.open.Store(false)
	recordSuccess()
	return nil
}
