package logpile

import (
	"bufio"
	"io"
	"sync"
)

// StreamTarget writes RFC 5424 records to a caller-supplied writer through a
// buffer that is flushed after every send, so a record is either fully
// visible downstream or not at all once Send returns.
type StreamTarget struct {
	targetBase
	mu     sync.Mutex
	buffer *bufio.Writer
}

// OpenStreamTarget wraps the given writer. The target does not own the
// writer: Close flushes but does not close it.
func OpenStreamTarget(name string, w io.Writer) (*StreamTarget, error) {
	if w == nil {
		return nil, raiseNullArgument("writer")
	}

	target := &StreamTarget{
		targetBase: newTargetBase(TargetKindStream, name),
		buffer:     bufio.NewWriter(w),
	}
	recordSuccess()
	return target, nil
}

// Send writes the entry as one newline-terminated record and flushes.
func (t *StreamTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	message := append(t.format(e), '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	written, err := t.buffer.Write(message)
	if err == nil {
		err = t.buffer.Flush()
	}
	if err != nil {
		return written, raisePlatformFailure(KeyStreamWriteFailure, platformCode(err), KeyErrnoCodeType, err)
	}

	recordSuccess()
	return written, nil
}

// Close flushes any buffered data and detaches from the writer.
func (t *StreamTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		recordSuccess()
		return nil
	}

	if err := t.buffer.Flush(); err != nil {
		return raisePlatformFailure(KeyStreamWriteFailure, platformCode(err), KeyErrnoCodeType, err)
	}
	t.open.Store(false)
	recordSuccess()
	return nil
}
