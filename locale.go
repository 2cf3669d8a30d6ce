package logpile

import (
	"sync"

	"golang.org/x/text/language"
)

// MessageKey is the symbolic identifier of a user-visible message. Keys are
// resolved to display text through the active locale; errors carry keys, not
// rendered strings, so the locale may change after an error is raised.
type MessageKey string

const (
	KeyBindUnixSocketFailed         MessageKey = "BindUnixSocketFailed"
	KeyBufferTooSmall               MessageKey = "BufferTooSmall"
	KeyCloseUnsupportedTarget       MessageKey = "CloseUnsupportedTarget"
	KeyCommitTransactionFailed      MessageKey = "CommitTransactionFailed"
	KeyConnectSocketFailed          MessageKey = "ConnectSocketFailed"
	KeyCreateTransactionFailed      MessageKey = "CreateTransactionFailed"
	KeyDuplicateElement             MessageKey = "DuplicateElement"
	KeyElementNotFound              MessageKey = "ElementNotFound"
	KeyErrnoCodeType                MessageKey = "ErrnoCodeType"
	KeyFileOpenFailure              MessageKey = "FileOpenFailure"
	KeyFileWriteFailure             MessageKey = "FileWriteFailure"
	KeyFunctionTargetFailure        MessageKey = "FunctionTargetFailure"
	KeyFunctionTargetCodeType       MessageKey = "FunctionTargetCodeType"
	KeyGethostnameFailed            MessageKey = "GethostnameFailed"
	KeyIndexCodeType                MessageKey = "IndexCodeType"
	KeyInvalidEncoding              MessageKey = "InvalidEncoding"
	KeyInvalidFacility              MessageKey = "InvalidFacility"
	KeyInvalidIndex                 MessageKey = "InvalidIndex"
	KeyInvalidOptions               MessageKey = "InvalidOptions"
	KeyInvalidSeverity              MessageKey = "InvalidSeverity"
	KeyJournaldSendFailed           MessageKey = "JournaldSendFailed"
	KeyMemoryAllocationFailure      MessageKey = "MemoryAllocationFailure"
	KeyMessageSizeCodeType          MessageKey = "MessageSizeCodeType"
	KeyMessageTooBig                MessageKey = "MessageTooBig"
	KeyNetworkProtocolUnsupported   MessageKey = "NetworkProtocolUnsupported"
	KeyNullArgument                 MessageKey = "NullArgument"
	KeyParamNotFound                MessageKey = "ParamNotFound"
	KeyRegistrySubkeyCreationFailed MessageKey = "RegistrySubkeyCreationFailed"
	KeyRegistrySubkeyDeletionFailed MessageKey = "RegistrySubkeyDeletionFailed"
	KeyRegistrySubkeyOpenFailed     MessageKey = "RegistrySubkeyOpenFailed"
	KeyRegistryValueGetFailed       MessageKey = "RegistryValueGetFailed"
	KeyRegistryValueSetFailed       MessageKey = "RegistryValueSetFailed"
	KeySendMessageFailed            MessageKey = "SendMessageFailed"
	KeySocketFailed                 MessageKey = "SocketFailed"
	KeySourceRegistrationTxn        MessageKey = "SourceRegistrationTxn"
	KeyStreamWriteFailure           MessageKey = "StreamWriteFailure"
	KeyStringLengthCodeType         MessageKey = "StringLengthCodeType"
	KeyStringTooLong                MessageKey = "StringTooLong"
	KeyTargetAlreadyOpen            MessageKey = "TargetAlreadyOpen"
	KeyTransportUnsupported         MessageKey = "TransportUnsupported"
	KeyUnsupportedTarget            MessageKey = "UnsupportedTarget"
	KeyWelEventReportFailed         MessageKey = "WelEventReportFailed"
	KeyWideConversionFailed         MessageKey = "WideConversionFailed"
	KeyWindowsReturnCodeType        MessageKey = "WindowsReturnCodeType"
)

// Resolver turns message keys into display text. The zero resolver used when
// a table has no entry for a key returns a visible placeholder rather than
// failing, so a partially translated locale is still usable.
type Resolver interface {
	Resolve(key MessageKey) string
}

type localeTable map[MessageKey]string

func (t localeTable) Resolve(key MessageKey) string {
	text, found := t[key]
	if !found {
		return missingTranslation(key)
	}
	return text
}

func missingTranslation(key MessageKey) string {
	return "L10N MISSING " + string(key)
}

var enUS = localeTable{
	KeyBindUnixSocketFailed:         "could not bind to the local unix socket",
	KeyBufferTooSmall:               "the buffer is too small for the given message",
	KeyCloseUnsupportedTarget:       "attempted to close a target of an unsupported type",
	KeyCommitTransactionFailed:      "could not commit the registry transaction",
	KeyConnectSocketFailed:          "the connection to the socket failed",
	KeyCreateTransactionFailed:      "could not create a registry transaction",
	KeyDuplicateElement:             "an element with the provided name is already present in this entry",
	KeyElementNotFound:              "an element with the specified characteristics could not be found",
	KeyErrnoCodeType:                "errno after the failed call",
	KeyFileOpenFailure:              "could not open the specified file",
	KeyFileWriteFailure:             "could not write to the file",
	KeyFunctionTargetFailure:        "the log handler for a function target failed",
	KeyFunctionTargetCodeType:       "the return value of the log handler",
	KeyGethostnameFailed:            "the hostname of this machine could not be retrieved",
	KeyIndexCodeType:                "the invalid index",
	KeyInvalidEncoding:              "the provided value is not correctly encoded",
	KeyInvalidFacility:              "facility codes must be defined in accordance with RFC 5424",
	KeyInvalidIndex:                 "the given index is not valid for this collection",
	KeyInvalidOptions:               "the provided target options failed validation",
	KeyInvalidSeverity:              "severity codes must be in the range of 0 to 7, inclusive",
	KeyJournaldSendFailed:           "could not submit the record to the journald socket",
	KeyMemoryAllocationFailure:      "a memory allocation call failed",
	KeyMessageSizeCodeType:          "the size of the message that was attempted to be sent",
	KeyMessageTooBig:                "the message is too large to be sent in a single datagram",
	KeyNetworkProtocolUnsupported:   "the chosen network protocol is not supported",
	KeyNullArgument:                 "a required argument was missing or empty",
	KeyParamNotFound:                "a param with the specified characteristics could not be found",
	KeyRegistrySubkeyCreationFailed: "a registry subkey could not be created",
	KeyRegistrySubkeyDeletionFailed: "a registry subkey could not be deleted",
	KeyRegistrySubkeyOpenFailed:     "a registry subkey could not be opened",
	KeyRegistryValueGetFailed:       "a registry value could not be read",
	KeyRegistryValueSetFailed:       "a registry value could not be set",
	KeySendMessageFailed:            "could not send the message over the socket",
	KeySocketFailed:                 "the socket could not be created",
	KeySourceRegistrationTxn:        "event source registration",
	KeyStreamWriteFailure:           "could not write to the stream",
	KeyStringLengthCodeType:         "the length of the offending string",
	KeyStringTooLong:                "the length of the string exceeded the maximum limit",
	KeyTargetAlreadyOpen:            "the target has already been opened",
	KeyTransportUnsupported:         "the chosen transport protocol is not supported",
	KeyUnsupportedTarget:            "this operation is not valid for the given target type",
	KeyWelEventReportFailed:         "the event could not be reported to the Windows Event Log",
	KeyWideConversionFailed:         "could not convert the provided wide char string",
	KeyWindowsReturnCodeType:        "the Windows error code returned by the call",
}

// plPL carries the Polish translations. Entries absent here fall back to the
// missing-translation placeholder rather than to English, matching the
// behavior expected of a partial table.
var plPL = localeTable{
	KeyBindUnixSocketFailed:     "nie można podłączyć do gniazda unix",
	KeyBufferTooSmall:           "buffer jest za mały dla tej wiadomości",
	KeyCloseUnsupportedTarget:   "próba zamknięcia pliku docelowego nieobsługiwanego typu",
	KeyConnectSocketFailed:      "awaria połączenia z gniazdem sys/socket.h socketem",
	KeyDuplicateElement:         "element o podanej nazwie już pojawia się w tym wejściu",
	KeyElementNotFound:          "nie można znaleźć elementu o określonej charakterystyce",
	KeyErrnoCodeType:            "połączenie zwróciło numer błędu (errno)",
	KeyFileOpenFailure:          "komunikat o błędzie - nie udało się otworzyć pliku",
	KeyFileWriteFailure:         "komunikat o błędzie - nie udało się zapisać",
	KeyFunctionTargetFailure:    "obsługa protokołu dla celu funkcji nie powiodła się",
	KeyFunctionTargetCodeType:   "kod powrotu funkcji obsługi protokołu",
	KeyGethostnameFailed:        "gethostname przegrany",
}

var (
	localeMu     sync.RWMutex
	activeLocale Resolver = enUS

	supportedLocales = []language.Tag{
		language.AmericanEnglish, // first entry is the fallback
		language.MustParse("pl-PL"),
	}
	localeTables = map[language.Tag]localeTable{
		language.AmericanEnglish:    enUS,
		language.MustParse("pl-PL"): plPL,
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// SetLocale selects the built-in message table closest to the given tag,
// falling back to en-US when nothing matches.
func SetLocale(tag language.Tag) {
	_, index, _ := localeMatcher.Match(tag)
	table := localeTables[supportedLocales[index]]

	localeMu.Lock()
	activeLocale = table
	localeMu.Unlock()
}

// SetResolver installs a caller-supplied message resolver, replacing the
// built-in tables. A nil resolver restores the en-US table.
func SetResolver(r Resolver) {
	localeMu.Lock()
	if r == nil {
		activeLocale = enUS
	} else {
		activeLocale = r
	}
	localeMu.Unlock()
}

func resolveMessage(key MessageKey) string {
	localeMu.RLock()
	r := activeLocale
	localeMu.RUnlock()
	return r.Resolve(key)
}
