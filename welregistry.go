package logpile

import "errors"

// The registry collaborators behind event-source installation. The protocol
// in welsource.go is platform-independent and runs against these interfaces;
// the real Windows binding lives behind a build tag and the tests drive the
// protocol with an in-memory registry.

// errRegKeyNotFound distinguishes an absent subkey from a failed open.
var errRegKeyNotFound = errors.New("registry key not found")

// welRegistry is a view of the registry rooted at HKEY_LOCAL_MACHINE.
type welRegistry interface {
	// OpenKey opens an existing subkey for reading and writing values.
	// Returns an error matching errRegKeyNotFound when the key is absent.
	OpenKey(path string) (welRegKey, error)
	// CreateKeyTransacted creates or opens the subkey at path inside tx.
	CreateKeyTransacted(path string, tx welTransaction) (welRegKey, error)
	// CreateTransaction begins a registry transaction.
	CreateTransaction(description string) (welTransaction, error)
	// DeleteTree removes a subkey and everything under it.
	DeleteTree(path string) error
}

type welRegKey interface {
	// CreateSubkeyTransacted creates or opens a direct child key inside tx.
	CreateSubkeyTransacted(name string, tx welTransaction) (welRegKey, error)
	// MultiSZ reads a REG_MULTI_SZ value as raw UTF-16 code units,
	// terminators included.
	MultiSZ(name string) ([]uint16, error)
	SetMultiSZ(name string, value []uint16) error
	SetDWord(name string, value uint32) error
	SetSZ(name string, value string) error
	Close() error
}

// welTransaction covers the second, atomic phase of source installation.
// Close without a prior Commit rolls the transaction back.
type welTransaction interface {
	Commit() error
	Close() error
}

/* REG_MULTI_SZ helpers */

// multiSZWellFormed reports whether a raw MULTI_SZ buffer is either empty or
// correctly double-NUL terminated. Malformed buffers are a hard failure for
// the caller, never silently repaired.
func multiSZWellFormed(value []uint16) bool {
	if len(value) == 0 || value[0] == 0 {
		return true
	}
	return len(value) >= 2 && value[len(value)-2] == 0 && value[len(value)-1] == 0
}

// multiSZContains walks the string list looking for an exact match.
func multiSZContains(value []uint16, name []uint16) bool {
	current := 0
	for current < len(value) && value[current] != 0 {
		length := wideLen(value[current:])
		entry := value[current : current+length]
		if wideEqual(entry, name) {
			return true
		}
		current += length + 1
	}
	return false
}

// multiSZAppend returns a new buffer with name appended to the list:
// the old list terminator is dropped and the name is added with its own
// terminator plus the new list terminator.
func multiSZAppend(value []uint16, name []uint16) []uint16 {
	kept := value
	if length := len(kept); length > 0 {
		kept = kept[:length-1]
	}

	appended := make([]uint16, 0, len(kept)+len(name)+2)
	appended = append(appended, kept...)
	appended = append(appended, name...)
	appended = append(appended, 0, 0)
	return appended
}

// multiSZSingle builds a one-entry MULTI_SZ buffer.
func multiSZSingle(name []uint16) []uint16 {
	single := make([]uint16, 0, len(name)+2)
	single = append(single, name...)
	single = append(single, 0, 0)
	return single
}

func wideEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
