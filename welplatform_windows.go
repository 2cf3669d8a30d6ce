//go:build windows

package logpile

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// Real Windows bindings for the event log sink and the registry collaborator.
// Transacted registry calls and RegDeleteTreeW are not surfaced by x/sys, so
// they are loaded lazily from advapi32 and ktmw32.

var (
	modAdvapi32 = windows.NewLazySystemDLL("advapi32.dll")
	modKtmw32   = windows.NewLazySystemDLL("ktmw32.dll")

	procRegCreateKeyTransactedW = modAdvapi32.NewProc("RegCreateKeyTransactedW")
	procRegDeleteTreeW          = modAdvapi32.NewProc("RegDeleteTreeW")
	procCreateTransaction       = modKtmw32.NewProc("CreateTransaction")
	procCommitTransaction       = modKtmw32.NewProc("CommitTransaction")
	procRollbackTransaction     = modKtmw32.NewProc("RollbackTransaction")
)

/* event log sink */

type windowsEventLogSink struct {
	handle windows.Handle
}

func newEventLogSink(source string) (eventLogSink, error) {
	name, err := windows.UTF16PtrFromString(source)
	if err != nil {
		return nil, raiseWideConversionFailure("source name contains a NUL byte")
	}

	handle, err := windows.RegisterEventSource(nil, name)
	if err != nil {
		return nil, raisePlatformFailure(
			KeyWelEventReportFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	return &windowsEventLogSink{handle: handle}, nil
}

func (s *windowsEventLogSink) ReportEvent(recordType uint16, category uint16, eventID uint32, insertions []string) error {
	pointers := make([]*uint16, len(insertions))
	for i, insertion := range insertions {
		p, err := windows.UTF16PtrFromString(insertion)
		if err != nil {
			return raiseWideConversionFailure("insertion string contains a NUL byte")
		}
		pointers[i] = p
	}

	var strings **uint16
	if len(pointers) > 0 {
		strings = &pointers[0]
	}
	return windows.ReportEvent(
		s.handle, recordType, category, eventID, 0, uint16(len(pointers)), 0, strings, nil)
}

func (s *windowsEventLogSink) Close() error {
	return windows.DeregisterEventSource(s.handle)
}

/* registry collaborator */

type windowsRegistry struct{}

func systemRegistry() (welRegistry, error) {
	return windowsRegistry{}, nil
}

func (windowsRegistry) OpenKey(path string) (welRegKey, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE|registry.SET_VALUE)
	if err == registry.ErrNotExist {
		return nil, errRegKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &windowsRegKey{key: key}, nil
}

func (windowsRegistry) CreateKeyTransacted(path string, tx welTransaction) (welRegKey, error) {
	return createKeyTransacted(windows.Handle(registry.LOCAL_MACHINE), path, tx)
}

func (windowsRegistry) CreateTransaction(description string) (welTransaction, error) {
	wideDescription, err := windows.UTF16PtrFromString(description)
	if err != nil {
		return nil, raiseWideConversionFailure("transaction description contains a NUL byte")
	}

	handle, _, callErr := procCreateTransaction.Call(
		0, 0, 0, 0, 0, 0, uintptr(unsafe.Pointer(wideDescription)))
	if windows.Handle(handle) == windows.InvalidHandle {
		return nil, callErr
	}
	return &windowsTransaction{handle: windows.Handle(handle)}, nil
}

func (windowsRegistry) DeleteTree(path string) error {
	widePath, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return raiseWideConversionFailure("registry path contains a NUL byte")
	}

	status, _, _ := procRegDeleteTreeW.Call(
		uintptr(registry.LOCAL_MACHINE), uintptr(unsafe.Pointer(widePath)))
	if status != 0 {
		return syscall.Errno(status)
	}
	return nil
}

func createKeyTransacted(parent windows.Handle, path string, tx welTransaction) (welRegKey, error) {
	widePath, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, raiseWideConversionFailure("registry path contains a NUL byte")
	}

	transaction, ok := tx.(*windowsTransaction)
	if !ok {
		return nil, raiseNullArgument("registry transaction")
	}

	var handle windows.Handle
	status, _, _ := procRegCreateKeyTransactedW.Call(
		uintptr(parent),
		uintptr(unsafe.Pointer(widePath)),
		0, // Reserved
		0, // lpClass
		0, // REG_OPTION_NON_VOLATILE
		uintptr(windows.KEY_READ|windows.KEY_WRITE),
		0, // lpSecurityAttributes
		uintptr(unsafe.Pointer(&handle)),
		0, // lpdwDisposition
		uintptr(transaction.handle),
		0) // pExtendedParemeter, must be NULL
	if status != 0 {
		return nil, syscall.Errno(status)
	}
	return &windowsRegKey{key: registry.Key(handle)}, nil
}

type windowsRegKey struct {
	key registry.Key
}

func (k *windowsRegKey) CreateSubkeyTransacted(name string, tx welTransaction) (welRegKey, error) {
	return createKeyTransacted(windows.Handle(k.key), name, tx)
}

func (k *windowsRegKey) MultiSZ(name string) ([]uint16, error) {
	raw := make([]byte, 256)
	for {
		n, valueType, err := k.key.GetValue(name, raw)
		if err == registry.ErrShortBuffer {
			raw = make([]byte, n)
			continue
		}
		if err != nil {
			return nil, err
		}
		if valueType != registry.MULTI_SZ {
			return nil, registry.ErrUnexpectedType
		}

		units := make([]uint16, n/2)
		for i := range units {
			units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
		}
		return units, nil
	}
}

func (k *windowsRegKey) SetMultiSZ(name string, value []uint16) error {
	wideName, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return raiseWideConversionFailure("value name contains a NUL byte")
	}

	var data *byte
	if len(value) > 0 {
		data = (*byte)(unsafe.Pointer(&value[0]))
	}
	return windows.RegSetValueEx(
		windows.Handle(k.key), wideName, 0, registry.MULTI_SZ, data, uint32(len(value)*2))
}

func (k *windowsRegKey) SetDWord(name string, value uint32) error {
	return k.key.SetDWordValue(name, value)
}

func (k *windowsRegKey) SetSZ(name string, value string) error {
	return k.key.SetStringValue(name, value)
}

func (k *windowsRegKey) Close() error {
	return k.key.Close()
}

type windowsTransaction struct {
	handle    windows.Handle
	committed bool
}

func (t *windowsTransaction) Commit() error {
	ok, _, callErr := procCommitTransaction.Call(uintptr(t.handle))
	if ok == 0 {
		return callErr
	}
	t.committed = true
	return nil
}

func (t *windowsTransaction) Close() error {
	if !t.committed {
		procRollbackTransaction.Call(uintptr(t.handle))
	}
	return windows.CloseHandle(t.handle)
}
