//go:build !windows

package logpile

// Stubs for platforms without an event log. Opening a Windows Event Log
// target or touching source registration fails with an unsupported-target
// error instead of compiling the Windows bindings.

func newEventLogSink(source string) (eventLogSink, error) {
	return nil, raiseUnsupportedTarget(KeyUnsupportedTarget)
}

func systemRegistry() (welRegistry, error) {
	return nil, raiseUnsupportedTarget(KeyUnsupportedTarget)
}
