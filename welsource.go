package logpile

import (
	"errors"
	"os"
)

// Event-source installation for the Windows Event Log. Sources are recorded
// under SYSTEM\CurrentControlSet\Services\EventLog\<subkey>: the subkey's
// Sources multi-string lists every registered source, and each source has
// its own child key carrying the message-file configuration.
//
// Installation runs in two phases. The Sources list append is best effort
// and skipped when the source is already present; the source child key is
// then created and populated inside a registry transaction so a partially
// written source never becomes visible.

const (
	welEventLogKeyPath  = `SYSTEM\CurrentControlSet\Services\EventLog\`
	welSourcesValueName = "Sources"

	// defaultWelCategoryCount matches the eight severity-derived categories
	// used by default event identifiers.
	defaultWelCategoryCount = 8

	defaultWelSourceName = "Logpile"

	// maxWelSourceNameLength bounds a source name by the registry key name
	// limit, in UTF-16 code units.
	maxWelSourceNameLength = 255
)

// WelSourceConfig describes the registry values written for an event source.
// Empty file paths leave the corresponding value unset.
type WelSourceConfig struct {
	CategoryCount  uint32
	CategoryFile   string
	EventFile      string
	ParameterFile  string
	TypesSupported uint32
}

// AddWelEventSource registers sourceName under the event log subkey named
// subkeyName, creating the subkey when needed. Re-registering an existing
// source is not an error: the Sources list keeps a single entry and the
// source key's values are rewritten from cfg.
func AddWelEventSource(subkeyName, sourceName string, cfg *WelSourceConfig) error {
	reg, err := systemRegistry()
	if err != nil {
		return err
	}
	return addWelEventSource(reg, subkeyName, sourceName, cfg)
}

// AddDefaultWelEventSource registers the source used by default event
// identifiers, pointing the category and event message files at the running
// executable.
func AddDefaultWelEventSource() error {
	executable, err := os.Executable()
	if err != nil {
		return raisePlatformFailure(
			KeyRegistryValueSetFailed, platformCode(err), KeyErrnoCodeType, err)
	}

	return AddWelEventSource(defaultWelSourceName, defaultWelSourceName, &WelSourceConfig{
		CategoryCount:  defaultWelCategoryCount,
		CategoryFile:   executable,
		EventFile:      executable,
		TypesSupported: WelAllTypesSupported,
	})
}

// RemoveWelEventSource deletes the event log subkey named subkeyName and
// every source registered under it.
func RemoveWelEventSource(subkeyName string) error {
	reg, err := systemRegistry()
	if err != nil {
		return err
	}
	return removeWelEventSource(reg, subkeyName)
}

// RemoveDefaultWelEventSource undoes AddDefaultWelEventSource.
func RemoveDefaultWelEventSource() error {
	return RemoveWelEventSource(defaultWelSourceName)
}

func addWelEventSource(reg welRegistry, subkeyName, sourceName string, cfg *WelSourceConfig) error {
	if subkeyName == "" {
		return raiseNullArgument("subkey name")
	}
	if sourceName == "" {
		return raiseNullArgument("source name")
	}
	if cfg == nil {
		return raiseNullArgument("source config")
	}

	wideSource, err := utf8ToWide(sourceName)
	if err != nil {
		return err
	}
	if len(wideSource) > maxWelSourceNameLength {
		return raiseStringTooLong(len(wideSource))
	}

	subkeyPath := welEventLogKeyPath + subkeyName

	key, err := reg.OpenKey(subkeyPath)
	if errors.Is(err, errRegKeyNotFound) {
		if err := createWelSourceSubkey(reg, subkeyPath, sourceName, wideSource, cfg); err != nil {
			return err
		}
		recordSuccess()
		return nil
	}
	if err != nil {
		return raisePlatformFailure(
			KeyRegistrySubkeyOpenFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer key.Close()

	if err := appendWelSource(key, wideSource); err != nil {
		return err
	}
	if err := installWelSourceKey(reg, key, sourceName, cfg); err != nil {
		return err
	}
	recordSuccess()
	return nil
}

// appendWelSource adds the source to an existing subkey's Sources list,
// leaving the list untouched when the source is already present. A Sources
// value that is not double-NUL terminated is rejected outright.
func appendWelSource(key welRegKey, wideSource []uint16) error {
	sources, err := key.MultiSZ(welSourcesValueName)
	if err != nil {
		return raisePlatformFailure(
			KeyRegistryValueGetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	if !multiSZWellFormed(sources) {
		return raiseInvalidEncoding("Sources value is not double-NUL terminated")
	}
	if multiSZContains(sources, wideSource) {
		return nil
	}

	if err := key.SetMultiSZ(welSourcesValueName, multiSZAppend(sources, wideSource)); err != nil {
		return raisePlatformFailure(
			KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	return nil
}

// createWelSourceSubkey handles the first-registration path: the subkey, its
// Sources list, and the source key are all created inside one transaction.
func createWelSourceSubkey(reg welRegistry, subkeyPath, sourceName string, wideSource []uint16, cfg *WelSourceConfig) error {
	tx, err := reg.CreateTransaction(resolveMessage(KeySourceRegistrationTxn))
	if err != nil {
		return raisePlatformFailure(
			KeyCreateTransactionFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer tx.Close()

	key, err := reg.CreateKeyTransacted(subkeyPath, tx)
	if err != nil {
		return raisePlatformFailure(
			KeyRegistrySubkeyCreationFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer key.Close()

	if err := key.SetMultiSZ(welSourcesValueName, multiSZSingle(wideSource)); err != nil {
		return raisePlatformFailure(
			KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}

	sourceKey, err := key.CreateSubkeyTransacted(sourceName, tx)
	if err != nil {
		return raisePlatformFailure(
			KeyRegistrySubkeyCreationFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer sourceKey.Close()

	if err := populateWelSourceKey(sourceKey, cfg); err != nil {
		return err
	}
	return commitWelTransaction(tx)
}

// installWelSourceKey creates and populates the source's child key inside a
// transaction, on a subkey that already exists.
func installWelSourceKey(reg welRegistry, key welRegKey, sourceName string, cfg *WelSourceConfig) error {
	tx, err := reg.CreateTransaction(resolveMessage(KeySourceRegistrationTxn))
	if err != nil {
		return raisePlatformFailure(
			KeyCreateTransactionFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer tx.Close()

	sourceKey, err := key.CreateSubkeyTransacted(sourceName, tx)
	if err != nil {
		return raisePlatformFailure(
			KeyRegistrySubkeyCreationFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	defer sourceKey.Close()

	if err := populateWelSourceKey(sourceKey, cfg); err != nil {
		return err
	}
	return commitWelTransaction(tx)
}

func populateWelSourceKey(key welRegKey, cfg *WelSourceConfig) error {
	if err := key.SetDWord("CategoryCount", cfg.CategoryCount); err != nil {
		return raisePlatformFailure(
			KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	if cfg.CategoryFile != "" {
		if err := key.SetSZ("CategoryMessageFile", cfg.CategoryFile); err != nil {
			return raisePlatformFailure(
				KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
		}
	}
	if cfg.EventFile != "" {
		if err := key.SetSZ("EventMessageFile", cfg.EventFile); err != nil {
			return raisePlatformFailure(
				KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
		}
	}
	if cfg.ParameterFile != "" {
		if err := key.SetSZ("ParameterMessageFile", cfg.ParameterFile); err != nil {
			return raisePlatformFailure(
				KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
		}
	}
	if err := key.SetDWord("TypesSupported", cfg.TypesSupported); err != nil {
		return raisePlatformFailure(
			KeyRegistryValueSetFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	return nil
}

func commitWelTransaction(tx welTransaction) error {
	if err := tx.Commit(); err != nil {
		return raisePlatformFailure(
			KeyCommitTransactionFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	return nil
}

func removeWelEventSource(reg welRegistry, subkeyName string) error {
	if subkeyName == "" {
		return raiseNullArgument("subkey name")
	}
	if err := reg.DeleteTree(welEventLogKeyPath + subkeyName); err != nil {
		return raisePlatformFailure(
			KeyRegistrySubkeyDeletionFailed, platformCode(err), KeyWindowsReturnCodeType, err)
	}
	recordSuccess()
	return nil
}
