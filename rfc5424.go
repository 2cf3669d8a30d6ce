package logpile

import (
	"bytes"
	"strconv"
	"time"
)

// rfc5424Time renders timestamps with microsecond precision and a Z or
// numeric offset, per the RFC 5424 TIMESTAMP grammar.
const rfc5424Time = "2006-01-02T15:04:05.000000Z07:00"

const nilValue = "-"

// formatRFC5424 renders an entry as an RFC 5424 message:
//
//	<PRIVAL>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID STRUCTURED-DATA MSG
//
// Empty identification fields render as the NILVALUE. Element order and
// param order are preserved exactly as built on the entry.
func formatRFC5424(e *Entry, hostname, procID string, now time.Time) []byte {
	buf := &bytes.Buffer{}

	buf.WriteByte('<')
	buf.WriteString(strconv.Itoa(e.prival))
	buf.WriteString(">1 ")
	buf.WriteString(now.Format(rfc5424Time))
	buf.WriteByte(' ')
	writeField(buf, hostname)
	buf.WriteByte(' ')
	writeField(buf, e.appName)
	buf.WriteByte(' ')
	writeField(buf, procID)
	buf.WriteByte(' ')
	writeField(buf, e.msgID)
	buf.WriteByte(' ')
	writeStructuredData(buf, e.elements)

	if e.message != emptyString {
		buf.WriteByte(' ')
		buf.WriteString(e.message)
	}

	return buf.Bytes()
}

func writeField(buf *bytes.Buffer, field string) {
	if field == emptyString {
		buf.WriteString(nilValue)
		return
	}
	buf.WriteString(field)
}

func writeStructuredData(buf *bytes.Buffer, elements []*Element) {
	if len(elements) == 0 {
		buf.WriteString(nilValue)
		return
	}

	for _, element := range elements {
		buf.WriteByte('[')
		buf.WriteString(element.name)
		for _, param := range element.params {
			buf.WriteByte(' ')
			buf.WriteString(param.name)
			buf.WriteString(`="`)
			writeEscapedParamValue(buf, param.value)
			buf.WriteByte('"')
		}
		buf.WriteByte(']')
	}
}

// writeEscapedParamValue escapes the three characters RFC 5424 requires
// inside PARAM-VALUE: '"', '\' and ']'.
func writeEscapedParamValue(buf *bytes.Buffer, value []byte) {
	for _, c := range value {
		if c == '"' || c == '\\' || c == ']' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
}
