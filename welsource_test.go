package logpile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry is an in-memory welRegistry. Transacted writes are buffered
// per transaction and applied on commit, so a rolled-back transaction leaves
// no trace, just like the real thing.
type fakeRegistry struct {
	keys map[string]*fakeRegKeyState

	openErr      error
	createTxnErr error
	setValueErr  error
}

type fakeRegKeyState struct {
	multiSZ map[string][]uint16
	dwords  map[string]uint32
	strings map[string]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{keys: map[string]*fakeRegKeyState{}}
}

func newFakeRegKeyState() *fakeRegKeyState {
	return &fakeRegKeyState{
		multiSZ: map[string][]uint16{},
		dwords:  map[string]uint32{},
		strings: map[string]string{},
	}
}

func (r *fakeRegistry) OpenKey(path string) (welRegKey, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	state, exists := r.keys[path]
	if !exists {
		return nil, errRegKeyNotFound
	}
	return &fakeRegKey{registry: r, path: path, state: state}, nil
}

func (r *fakeRegistry) CreateKeyTransacted(path string, tx welTransaction) (welRegKey, error) {
	transaction := tx.(*fakeTransaction)
	state, exists := r.keys[path]
	if !exists {
		state = newFakeRegKeyState()
		transaction.pending[path] = state
	}
	return &fakeRegKey{registry: r, path: path, state: state}, nil
}

func (r *fakeRegistry) CreateTransaction(description string) (welTransaction, error) {
	if r.createTxnErr != nil {
		return nil, r.createTxnErr
	}
	return &fakeTransaction{registry: r, pending: map[string]*fakeRegKeyState{}}, nil
}

func (r *fakeRegistry) DeleteTree(path string) error {
	if _, exists := r.keys[path]; !exists {
		return errors.New("key not found")
	}
	for existing := range r.keys {
		if existing == path || strings.HasPrefix(existing, path+`\`) {
			delete(r.keys, existing)
		}
	}
	return nil
}

type fakeRegKey struct {
	registry *fakeRegistry
	path     string
	state    *fakeRegKeyState
}

func (k *fakeRegKey) CreateSubkeyTransacted(name string, tx welTransaction) (welRegKey, error) {
	return k.registry.CreateKeyTransacted(k.path+`\`+name, tx)
}

func (k *fakeRegKey) MultiSZ(name string) ([]uint16, error) {
	value, exists := k.state.multiSZ[name]
	if !exists {
		return nil, errors.New("value not found")
	}
	return value, nil
}

func (k *fakeRegKey) SetMultiSZ(name string, value []uint16) error {
	if k.registry.setValueErr != nil {
		return k.registry.setValueErr
	}
	k.state.multiSZ[name] = value
	return nil
}

func (k *fakeRegKey) SetDWord(name string, value uint32) error {
	if k.registry.setValueErr != nil {
		return k.registry.setValueErr
	}
	k.state.dwords[name] = value
	return nil
}

func (k *fakeRegKey) SetSZ(name, value string) error {
	if k.registry.setValueErr != nil {
		return k.registry.setValueErr
	}
	k.state.strings[name] = value
	return nil
}

func (k *fakeRegKey) Close() error { return nil }

type fakeTransaction struct {
	registry  *fakeRegistry
	pending   map[string]*fakeRegKeyState
	committed bool
}

func (t *fakeTransaction) Commit() error {
	for path, state := range t.pending {
		t.registry.keys[path] = state
	}
	t.committed = true
	return nil
}

func (t *fakeTransaction) Close() error { return nil }

func wideFromString(t *testing.T, s string) []uint16 {
	t.Helper()
	wide, err := utf8ToWide(s)
	require.NoError(t, err)
	return wide
}

func testSourceConfig() *WelSourceConfig {
	return &WelSourceConfig{
		CategoryCount:  8,
		CategoryFile:   `C:\app\app.exe`,
		EventFile:      `C:\app\app.exe`,
		TypesSupported: WelAllTypesSupported,
	}
}

func TestAddWelEventSource(t *testing.T) {
	const subkeyPath = welEventLogKeyPath + "MyApp"

	t.Run("first registration creates subkey source list and source key", func(t *testing.T) {
		registry := newFakeRegistry()

		require.NoError(t, addWelEventSource(registry, "MyApp", "MySource", testSourceConfig()))

		subkey, exists := registry.keys[subkeyPath]
		require.True(t, exists)
		assert.True(t, multiSZContains(subkey.multiSZ[welSourcesValueName], wideFromString(t, "MySource")))
		assert.True(t, multiSZWellFormed(subkey.multiSZ[welSourcesValueName]))

		sourceKey, exists := registry.keys[subkeyPath+`\MySource`]
		require.True(t, exists)
		assert.Equal(t, uint32(8), sourceKey.dwords["CategoryCount"])
		assert.Equal(t, WelAllTypesSupported, sourceKey.dwords["TypesSupported"])
		assert.Equal(t, `C:\app\app.exe`, sourceKey.strings["EventMessageFile"])
		assert.Equal(t, `C:\app\app.exe`, sourceKey.strings["CategoryMessageFile"])
		_, hasParameterFile := sourceKey.strings["ParameterMessageFile"]
		assert.False(t, hasParameterFile)
	})

	t.Run("re-registration keeps one list entry and rewrites values", func(t *testing.T) {
		registry := newFakeRegistry()
		require.NoError(t, addWelEventSource(registry, "MyApp", "MySource", testSourceConfig()))

		updated := testSourceConfig()
		updated.CategoryCount = 16
		require.NoError(t, addWelEventSource(registry, "MyApp", "MySource", updated))

		sources := registry.keys[subkeyPath].multiSZ[welSourcesValueName]
		count := 0
		for current := 0; current < len(sources) && sources[current] != 0; {
			count++
			current += wideLen(sources[current:]) + 1
		}
		assert.Equal(t, 1, count)

		assert.Equal(t, uint32(16), registry.keys[subkeyPath+`\MySource`].dwords["CategoryCount"])
	})

	t.Run("second source appends to the existing list", func(t *testing.T) {
		registry := newFakeRegistry()
		require.NoError(t, addWelEventSource(registry, "MyApp", "First", testSourceConfig()))
		require.NoError(t, addWelEventSource(registry, "MyApp", "Second", testSourceConfig()))

		sources := registry.keys[subkeyPath].multiSZ[welSourcesValueName]
		assert.True(t, multiSZWellFormed(sources))
		assert.True(t, multiSZContains(sources, wideFromString(t, "First")))
		assert.True(t, multiSZContains(sources, wideFromString(t, "Second")))
	})

	t.Run("malformed sources value is rejected not repaired", func(t *testing.T) {
		registry := newFakeRegistry()
		state := newFakeRegKeyState()
		// A sources list missing its double-NUL terminator.
		state.multiSZ[welSourcesValueName] = wideFromString(t, "Broken")
		registry.keys[subkeyPath] = state

		err := addWelEventSource(registry, "MyApp", "MySource", testSourceConfig())
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindEncodingConversionFailure, libErr.Kind)

		// The broken value is left exactly as found.
		assert.Equal(t, wideFromString(t, "Broken"), registry.keys[subkeyPath].multiSZ[welSourcesValueName])
	})

	t.Run("failed transaction leaves no source key behind", func(t *testing.T) {
		registry := newFakeRegistry()
		registry.setValueErr = errors.New("ERROR_ACCESS_DENIED")

		err := addWelEventSource(registry, "MyApp", "MySource", testSourceConfig())
		require.Error(t, err)

		_, exists := registry.keys[subkeyPath+`\MySource`]
		assert.False(t, exists)
	})

	t.Run("empty arguments rejected", func(t *testing.T) {
		registry := newFakeRegistry()
		require.Error(t, addWelEventSource(registry, "", "MySource", testSourceConfig()))
		require.Error(t, addWelEventSource(registry, "MyApp", "", testSourceConfig()))
		require.Error(t, addWelEventSource(registry, "MyApp", "MySource", nil))
	})

	t.Run("over-long source name rejected", func(t *testing.T) {
		registry := newFakeRegistry()
		name := strings.Repeat("s", maxWelSourceNameLength+1)
		err := addWelEventSource(registry, "MyApp", name, testSourceConfig())
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindStringTooLong, libErr.Kind)
	})
}

func TestRemoveWelEventSource(t *testing.T) {
	t.Run("removes the subkey and its sources", func(t *testing.T) {
		registry := newFakeRegistry()
		require.NoError(t, addWelEventSource(registry, "MyApp", "MySource", testSourceConfig()))

		require.NoError(t, removeWelEventSource(registry, "MyApp"))
		assert.Empty(t, registry.keys)
	})

	t.Run("missing subkey is a platform failure", func(t *testing.T) {
		registry := newFakeRegistry()
		err := removeWelEventSource(registry, "Absent")
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindPlatformFailure, libErr.Kind)
	})
}

func TestMultiSZHelpers(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		assert.True(t, multiSZWellFormed(nil))
		assert.True(t, multiSZWellFormed([]uint16{0}))
		assert.True(t, multiSZWellFormed([]uint16{'a', 0, 0}))
		assert.False(t, multiSZWellFormed([]uint16{'a'}))
		assert.False(t, multiSZWellFormed([]uint16{'a', 0}))
	})

	t.Run("contains walks every entry", func(t *testing.T) {
		list := multiSZSingle([]uint16{'a', 'b'})
		list = multiSZAppend(list, []uint16{'c', 'd'})

		assert.True(t, multiSZContains(list, []uint16{'a', 'b'}))
		assert.True(t, multiSZContains(list, []uint16{'c', 'd'}))
		assert.False(t, multiSZContains(list, []uint16{'a'}))
		assert.False(t, multiSZContains(list, []uint16{'x', 'y'}))
	})

	t.Run("append preserves the double terminator", func(t *testing.T) {
		list := multiSZSingle([]uint16{'a'})
		appended := multiSZAppend(list, []uint16{'b'})
		assert.Equal(t, []uint16{'a', 0, 'b', 0, 0}, appended)
	})
}
