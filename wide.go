package logpile

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Wide-string conversion for the Windows Event Log record and registry
// formats. Both directions reject malformed input instead of substituting
// replacement characters, mirroring the strict MB_ERR_INVALID_CHARS /
// WC_ERR_INVALID_CHARS conversion the event log interop requires.

// utf8ToWide converts UTF-8 text to a UTF-16 code unit sequence without a
// terminator. Invalid byte sequences fail the conversion.
func utf8ToWide(s string) ([]uint16, error) {
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, raiseWideConversionFailure("input is not valid UTF-8")
		}
		runes = append(runes, r)
		i += size
	}
	return utf16.Encode(runes), nil
}

// wideToUTF8 converts a UTF-16 code unit sequence back to UTF-8 text.
// Unpaired surrogates fail the conversion.
func wideToUTF8(w []uint16) (string, error) {
	for i := 0; i < len(w); i++ {
		u := w[i]
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(w) || w[i+1] < 0xDC00 || w[i+1] >= 0xE000 {
				return "", raiseWideConversionFailure("unpaired high surrogate")
			}
			i++
		case u >= 0xDC00 && u < 0xE000:
			return "", raiseWideConversionFailure("unpaired low surrogate")
		}
	}
	return string(utf16.Decode(w)), nil
}

// wideLen returns the length of a NUL-terminated wide string within buf,
// excluding the terminator, or len(buf) if no terminator is present.
func wideLen(buf []uint16) int {
	for i, u := range buf {
		if u == 0 {
			return i
		}
	}
	return len(buf)
}
