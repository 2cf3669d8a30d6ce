package logpile

import (
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileTarget appends RFC 5424 records to a local file, one per line. With
// rotation enabled the file handling is delegated to lumberjack; the library
// itself imposes no rotation policy.
type FileTarget struct {
	targetBase
	mu     sync.Mutex
	writer io.WriteCloser
	path   string
}

// OpenFileTarget opens or creates the file at path. By default records are
// appended; Options.Truncate starts the file over instead. Options.Rotate
// switches to a size/age-rotated file.
func OpenFileTarget(path string, opts *Options) (*FileTarget, error) {
	if path == emptyString {
		return nil, raiseNullArgument("path")
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	var writer io.WriteCloser
	if opts.Rotate {
		writer = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.RotateMaxSizeMB,
			MaxBackups: opts.RotateMaxBackups,
			MaxAge:     opts.RotateMaxAgeDays,
		}
	} else {
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if opts.Truncate {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		file, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, raisePlatformFailure(KeyFileOpenFailure, platformCode(err), KeyErrnoCodeType, err)
		}
		writer = file
	}

	target := &FileTarget{
		targetBase: newTargetBase(TargetKindFile, path),
		writer:     writer,
		path:       path,
	}
	diag.Debug().Str("target", path).Bool("rotate", opts.Rotate).Msg("file target opened")
	recordSuccess()
	return target, nil
}

// Send writes the entry as one newline-terminated RFC 5424 record.
func (t *FileTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	message := append(t.format(e), '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	written, err := t.writer.Write(message)
	if err != nil {
		diag.Debug().Str("target", t.name).Err(err).Msg("file write failed")
		return written, raisePlatformFailure(KeyFileWriteFailure, platformCode(err), KeyErrnoCodeType, err)
	}

	recordSuccess()
	return written, nil
}

// Close releases the file handle. Closing an already closed file target is a
// detectable no-op.
func (t *FileTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		recordSuccess()
		return nil
	}

	if err := t.writer.Close(); err != nil {
		return raisePlatformFailure(KeyFileWriteFailure, platformCode(err), KeyErrnoCodeType, err)
	}
	t.open.Store(false)
	diag.Debug().Str("target", t.name).Msg("file target closed")
	recordSuccess()
	return nil
}
