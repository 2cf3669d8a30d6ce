package logpile

import "fmt"

// Entry is the central log record: a severity/facility pair with the derived
// prival, identification fields, a pre-rendered message, and an ordered set
// of structured-data elements. Entries are created once and typically mutated
// by the owning goroutine before being handed to one or more targets.
//
// An Entry carries no lock of its own. Only the Windows Event Log extension
// data is mutex-guarded, because insertion strings are commonly set from
// racing logging call sites; every other field needs external
// synchronization if an entry is structurally mutated while shared. This
// split is deliberate and preserved from the record layout this library
// models: do not widen it to a coarse whole-entry lock.
type Entry struct {
	facility Facility
	severity Severity
	prival   int
	appName  string
	msgID    string
	message  string
	elements []*Element
	wel      *WelData
}

// NewEntry creates an entry with the given facility, severity and
// identification fields. The message is rendered immediately from format and
// args; targets later re-encode the finished text, never the format string.
func NewEntry(facility Facility, severity Severity, appName, msgID, format string, args ...any) (*Entry, error) {
	if !facility.Valid() {
		return nil, raiseInvalidFacility(facility)
	}
	if !severity.Valid() {
		return nil, raiseInvalidSeverity(severity)
	}
	if len(appName) > maxAppNameLength {
		return nil, raiseStringTooLong(len(appName))
	}
	if len(msgID) > maxMsgIDLength {
		return nil, raiseStringTooLong(len(msgID))
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	recordSuccess()
	return &Entry{
		facility: facility,
		severity: severity,
		prival:   Prival(facility, severity),
		appName:  appName,
		msgID:    msgID,
		message:  message,
		wel:      newWelData(),
	}, nil
}

// Facility returns the entry's facility code.
func (e *Entry) Facility() Facility { return e.facility }

// Severity returns the entry's severity code.
func (e *Entry) Severity() Severity { return e.severity }

// Prival returns the RFC 5424 priority value, always consistent with the
// last-set facility and severity.
func (e *Entry) Prival() int { return e.prival }

// AppName returns the entry's APP-NAME field.
func (e *Entry) AppName() string { return e.appName }

// MsgID returns the entry's MSGID field.
func (e *Entry) MsgID() string { return e.msgID }

// Message returns the entry's rendered message text.
func (e *Entry) Message() string { return e.message }

// SetFacility validates and sets the facility, recomputing the prival. On an
// out-of-range facility the entry is left unchanged. An explicitly set WEL
// category, event id or type is never recomputed by this call.
func (e *Entry) SetFacility(facility Facility) error {
	if !facility.Valid() {
		return raiseInvalidFacility(facility)
	}
	e.facility = facility
	e.prival = Prival(e.facility, e.severity)
	recordSuccess()
	return nil
}

// SetSeverity validates and sets the severity, recomputing the prival. On an
// out-of-range severity the entry is left unchanged.
func (e *Entry) SetSeverity(severity Severity) error {
	if !severity.Valid() {
		return raiseInvalidSeverity(severity)
	}
	e.severity = severity
	e.prival = Prival(e.facility, e.severity)
	recordSuccess()
	return nil
}

// SetPrival sets facility and severity together from a priority value.
func (e *Entry) SetPrival(prival int) error {
	facility := FacilityFromPrival(prival)
	if !facility.Valid() {
		return raiseInvalidFacility(facility)
	}
	e.facility = facility
	e.severity = SeverityFromPrival(prival)
	e.prival = Prival(e.facility, e.severity)
	recordSuccess()
	return nil
}

// SetAppName sets the APP-NAME field, enforcing the RFC 5424 length limit.
func (e *Entry) SetAppName(appName string) error {
	if len(appName) > maxAppNameLength {
		return raiseStringTooLong(len(appName))
	}
	e.appName = appName
	recordSuccess()
	return nil
}

// SetMsgID sets the MSGID field, enforcing the RFC 5424 length limit.
func (e *Entry) SetMsgID(msgID string) error {
	if len(msgID) > maxMsgIDLength {
		return raiseStringTooLong(len(msgID))
	}
	e.msgID = msgID
	recordSuccess()
	return nil
}

// SetMessage replaces the entry's message, rendering format with args.
func (e *Entry) SetMessage(format string, args ...any) {
	if len(args) > 0 {
		e.message = fmt.Sprintf(format, args...)
		return
	}
	e.message = format
}

// AddElement appends an existing element to the entry. It fails with a
// DuplicateElement error when an element with the same name (case-sensitive)
// is already present, leaving the element sequence unchanged.
func (e *Entry) AddElement(element *Element) error {
	if element == nil {
		return raiseNullArgument("element")
	}
	for _, existing := range e.elements {
		if existing.name == element.name {
			return raiseDuplicateElement()
		}
	}
	e.elements = append(e.elements, element)
	recordSuccess()
	return nil
}

// AddNewElement creates an element with the given name and appends it.
func (e *Entry) AddNewElement(name string) (*Element, error) {
	element, err := NewElement(name)
	if err != nil {
		return nil, err
	}
	if err := e.AddElement(element); err != nil {
		return nil, err
	}
	return element, nil
}

// ElementCount returns the number of elements on the entry.
func (e *Entry) ElementCount() int {
	return len(e.elements)
}

// Element returns the element at the given index.
func (e *Entry) Element(index int) (*Element, error) {
	if index < 0 || index >= len(e.elements) {
		return nil, raiseIndexOutOfBounds("element", index)
	}
	recordSuccess()
	return e.elements[index], nil
}

// FindElement returns the index of the first element with the given name, by
// linear scan.
func (e *Entry) FindElement(name string) (int, error) {
	for i, element := range e.elements {
		if element.name == name {
			recordSuccess()
			return i, nil
		}
	}
	return -1, raiseElementNotFound()
}

// ElementByName returns the first element with the given name.
func (e *Entry) ElementByName(name string) (*Element, error) {
	index, err := e.FindElement(name)
	if err != nil {
		return nil, err
	}
	return e.elements[index], nil
}

// SetParamValueByName sets the value of the named param within the named
// element, creating the param when it does not exist yet. The element itself
// must already be present.
func (e *Entry) SetParamValueByName(elementName, paramName, value string) error {
	element, err := e.ElementByName(elementName)
	if err != nil {
		return err
	}
	for _, param := range element.params {
		if param.name == paramName {
			param.SetValue(value)
			recordSuccess()
			return nil
		}
	}
	_, err = element.AddParam(paramName, value)
	return err
}

// Copy returns a deep copy of the entry. Elements and params are duplicated,
// as is the WEL extension; insertion slots that referenced a param are
// snapshotted to the value the param resolves to right now, since the source
// param's lifetime is independent of the copy's.
func (e *Entry) Copy() (*Entry, error) {
	entryCopy := &Entry{
		facility: e.facility,
		severity: e.severity,
		prival:   e.prival,
		appName:  e.appName,
		msgID:    e.msgID,
		message:  e.message,
	}

	if len(e.elements) > 0 {
		entryCopy.elements = make([]*Element, len(e.elements))
		for i, element := range e.elements {
			entryCopy.elements[i] = element.copy()
		}
	}

	welCopy, err := e.wel.copy()
	if err != nil {
		return nil, err
	}
	entryCopy.wel = welCopy

	recordSuccess()
	return entryCopy, nil
}
