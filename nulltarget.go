package logpile

// NullTarget encodes entries and discards the result. It exists so callers
// can disable a logging path while keeping encoding costs and validation
// behavior identical to a real target.
type NullTarget struct {
	targetBase
}

// OpenNullTarget creates a discarding target with the given display name.
func OpenNullTarget(name string) (*NullTarget, error) {
	target := &NullTarget{
		targetBase: newTargetBase(TargetKindNull, name),
	}
	recordSuccess()
	return target, nil
}

// Send encodes the entry and reports the encoded size without writing it
// anywhere.
func (t *NullTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	message := t.format(e)
	recordSuccess()
	return len(message), nil
}

// Close marks the target closed.
func (t *NullTarget) Close() error {
	t.open.Store(false)
	recordSuccess()
	return nil
}
