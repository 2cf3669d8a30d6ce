package logpile

import "sync"

// FunctionTarget hands every entry to an in-process callback instead of
// performing I/O. Useful for tests and for bridging into another logging
// system.
type FunctionTarget struct {
	targetBase
	mu      sync.Mutex
	handler LogFunc
}

// OpenFunctionTarget creates a function target invoking handler on each send.
func OpenFunctionTarget(name string, handler LogFunc) (*FunctionTarget, error) {
	if handler == nil {
		return nil, raiseNullArgument("handler")
	}

	target := &FunctionTarget{
		targetBase: newTargetBase(TargetKindFunction, name),
		handler:    handler,
	}
	recordSuccess()
	return target, nil
}

// Send invokes the handler with the target and entry. A handler failure is
// reported as a function target failure carrying the handler's error as the
// cause; on success the size of the entry's message is returned.
func (t *FunctionTarget) Send(e *Entry) (int, error) {
	if e == nil {
		return 0, raiseNullArgument("entry")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open.Load() {
		return 0, t.raiseTargetClosed()
	}

	if err := t.handler(t, e); err != nil {
		return 0, raisePlatformFailure(KeyFunctionTargetFailure, platformCode(err), KeyFunctionTargetCodeType, err)
	}

	recordSuccess()
	return len(e.message), nil
}

// Close detaches the handler. Re-closing is a detectable no-op.
func (t *FunctionTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open.Store(false)
	recordSuccess()
	return nil
}
