package logpile

import (
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
)

// The default target backs the package-level convenience functions. It is
// opened lazily on first use: the local syslog socket when one is present,
// otherwise a file next to the executable. The holder is swapped atomically
// so replacing the default target is safe while sends are in flight.

const defaultTargetFileName = "logpile-default.log"

type defaultTargetHolder struct {
	target Target
}

var defaultHolder atomic.Pointer[defaultTargetHolder]

// DefaultTarget returns the target used by the package-level logging
// functions, opening it if necessary.
func DefaultTarget() (Target, error) {
	if holder := defaultHolder.Load(); holder != nil {
		return holder.target, nil
	}

	opened, err := openDefaultTarget()
	if err != nil {
		return nil, err
	}

	// Another goroutine may have won the race; keep theirs and discard ours.
	if !defaultHolder.CompareAndSwap(nil, &defaultTargetHolder{target: opened}) {
		opened.Close()
		return defaultHolder.Load().target, nil
	}
	return opened, nil
}

// SetDefaultTarget replaces the default target and returns the previous one,
// or nil when none had been opened. The caller owns closing the returned
// target.
func SetDefaultTarget(target Target) Target {
	var holder *defaultTargetHolder
	if target != nil {
		holder = &defaultTargetHolder{target: target}
	}

	previous := defaultHolder.Swap(holder)
	if previous == nil {
		return nil
	}
	return previous.target
}

// CloseDefaultTarget closes the default target if one has been opened.
// The next package-level log call opens a fresh one.
func CloseDefaultTarget() error {
	previous := defaultHolder.Swap(nil)
	if previous == nil {
		return nil
	}
	return previous.target.Close()
}

func openDefaultTarget() (Target, error) {
	if conn, err := net.Dial("unixgram", "/dev/log"); err == nil {
		conn.Close()
		return OpenSocketTarget("/dev/log", &Options{})
	}

	path := defaultTargetFileName
	if executable, err := os.Executable(); err == nil {
		path = filepath.Join(filepath.Dir(executable), defaultTargetFileName)
	}
	return OpenFileTarget(path, &Options{})
}

// AddEntry sends the entry through the default target.
func AddEntry(e *Entry) (int, error) {
	target, err := DefaultTarget()
	if err != nil {
		return 0, err
	}
	return target.Send(e)
}

// Log formats and sends a message through the default target with the user
// facility, the executable's name as the app name, and no message identifier.
func Log(severity Severity, format string, args ...interface{}) (int, error) {
	target, err := DefaultTarget()
	if err != nil {
		return 0, err
	}
	return logTo(target, severity, format, args...)
}

// LogTo is Log against an explicit target.
func LogTo(target Target, severity Severity, format string, args ...interface{}) (int, error) {
	if target == nil {
		return 0, raiseNullArgument("target")
	}
	return logTo(target, severity, format, args...)
}

func logTo(target Target, severity Severity, format string, args ...interface{}) (int, error) {
	entry, err := NewEntry(FacilityUser, severity, defaultAppName(), emptyString, format, args...)
	if err != nil {
		return 0, err
	}
	return target.Send(entry)
}

func defaultAppName() string {
	executable, err := os.Executable()
	if err != nil {
		return "logpile"
	}

	name := filepath.Base(executable)
	if len(name) > maxAppNameLength {
		name = name[:maxAppNameLength]
	}
	return name
}
