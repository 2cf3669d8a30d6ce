package logpile

import (
	"fmt"
	"strconv"
	"time"
)

// EntryBuilder is a fluent alternative to calling NewEntry and the entry
// mutators one by one. Field methods can be chained freely; the first failure
// is remembered and every later call becomes a no-op, so error handling
// happens once at Entry().
//
// Example:
//
//	entry, err := BuildEntry().
//		Facility(FacilityLocal0).
//		Severity(SeverityWarning).
//		AppName("billing").
//		Element("origin").Str("ip", clientIP).
//		Messagef("invoice %s rejected", id).
//		Entry()
type EntryBuilder struct {
	facility Facility
	severity Severity
	appName  string
	msgID    string
	message  string
	elements []*Element
	current  *Element
	err      error
}

// BuildEntry starts a builder with the user facility and info severity.
func BuildEntry() *EntryBuilder {
	return &EntryBuilder{
		facility: FacilityUser,
		severity: SeverityInfo,
	}
}

func (b *EntryBuilder) Facility(facility Facility) *EntryBuilder {
	if b.err == nil {
		b.facility = facility
	}
	return b
}

func (b *EntryBuilder) Severity(severity Severity) *EntryBuilder {
	if b.err == nil {
		b.severity = severity
	}
	return b
}

func (b *EntryBuilder) AppName(appName string) *EntryBuilder {
	if b.err == nil {
		b.appName = appName
	}
	return b
}

func (b *EntryBuilder) MsgID(msgID string) *EntryBuilder {
	if b.err == nil {
		b.msgID = msgID
	}
	return b
}

func (b *EntryBuilder) Message(message string) *EntryBuilder {
	if b.err == nil {
		b.message = message
	}
	return b
}

func (b *EntryBuilder) Messagef(format string, args ...any) *EntryBuilder {
	if b.err == nil {
		b.message = fmt.Sprintf(format, args...)
	}
	return b
}

// Element opens a structured-data element; the typed field methods that
// follow add params to it until the next Element call. Opening an element
// with a name that is already present fails the builder.
func (b *EntryBuilder) Element(name string) *EntryBuilder {
	if b.err != nil {
		return b
	}

	for _, element := range b.elements {
		if element.Name() == name {
			b.err = raiseDuplicateElement()
			return b
		}
	}

	element, err := NewElement(name)
	if err != nil {
		b.err = err
		return b
	}

	b.elements = append(b.elements, element)
	b.current = element
	return b
}

// Str adds a string param to the element opened by the last Element call.
func (b *EntryBuilder) Str(name, value string) *EntryBuilder {
	return b.param(name, value)
}

func (b *EntryBuilder) Int(name string, value int) *EntryBuilder {
	return b.param(name, strconv.Itoa(value))
}

func (b *EntryBuilder) Int64(name string, value int64) *EntryBuilder {
	return b.param(name, strconv.FormatInt(value, 10))
}

func (b *EntryBuilder) Uint64(name string, value uint64) *EntryBuilder {
	return b.param(name, strconv.FormatUint(value, 10))
}

func (b *EntryBuilder) Float64(name string, value float64) *EntryBuilder {
	return b.param(name, strconv.FormatFloat(value, 'g', -1, 64))
}

func (b *EntryBuilder) Bool(name string, value bool) *EntryBuilder {
	return b.param(name, strconv.FormatBool(value))
}

func (b *EntryBuilder) Time(name string, value time.Time) *EntryBuilder {
	return b.param(name, value.Format(rfc5424Time))
}

func (b *EntryBuilder) param(name, value string) *EntryBuilder {
	if b.err != nil {
		return b
	}
	if b.current == nil {
		b.err = raiseElementNotFound()
		return b
	}

	if _, err := b.current.AddParam(name, value); err != nil {
		b.err = err
	}
	return b
}

// Entry finalizes the builder. The returned entry is independent of the
// builder; reusing the builder afterwards is not supported.
func (b *EntryBuilder) Entry() (*Entry, error) {
	if b.err != nil {
		return nil, b.err
	}

	entry, err := NewEntry(b.facility, b.severity, b.appName, b.msgID, "%s", b.message)
	if err != nil {
		return nil, err
	}
	for _, element := range b.elements {
		if err := entry.AddElement(element); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
