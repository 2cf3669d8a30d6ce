// Package logpile is a structured logging library built around RFC 5424
// log entries and a family of interchangeable targets.
//
// Key features
//   - Entries carry a facility/severity pair, identification fields, a
//     rendered message and ordered structured-data elements
//   - Targets for files (with rotation), arbitrary streams, unix sockets,
//     UDP and TCP syslog, the systemd journal, the Windows Event Log,
//     custom handler functions, and a discarding null sink
//   - Windows Event Log support including insertion strings, category and
//     event id derivation, and registry event-source installation
//   - Localized error messages with a per-goroutine last-error channel in
//     addition to ordinary returned errors
//
// Typical usage
//
//	target, err := logpile.OpenFileTarget("app.log", &logpile.Options{})
//	if err != nil { panic(err) }
//	defer target.Close()
//
//	entry, err := logpile.BuildEntry().
//		Severity(logpile.SeverityWarning).
//		AppName("billing").
//		Element("origin").Str("ip", addr).
//		Message("invoice rejected").
//		Entry()
//	if err != nil { panic(err) }
//
//	if _, err := target.Send(entry); err != nil { ... }
//
// The package-level Log and AddEntry helpers write through a lazily opened
// default target for programs that do not need explicit target management.
package logpile
