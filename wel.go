package logpile

import "sync"

// insertion is one slot of the WEL insertion-string vector. A slot is either
// unset, an owned wide string, or a weak reference to a param living in the
// entry's element store. The tagged variant makes the precedence rule
// structurally explicit: a param reference always wins over an owned string
// at the same index.
type insertion struct {
	text  []uint16
	param *Param
}

func (ins *insertion) isSet() bool {
	return ins.param != nil || ins.text != nil
}

// WelData is the Windows Event Log extension of an entry: the optional
// category/event-id/type overrides and the insertion-string vector consumed
// by message-resource templates.
//
// Every read or write of WelData state acquires its mutex for the duration
// of the operation. This is the only locked substructure of an entry;
// insertion strings are routinely set from logging call sites that race,
// while the rest of an entry is set up once before sharing.
type WelData struct {
	mu sync.Mutex

	category    uint16
	categorySet bool

	eventID    uint32
	eventIDSet bool

	recordType uint16
	typeSet    bool

	insertions []insertion
}

func newWelData() *WelData {
	return &WelData{}
}

// maxInsertionIndex caps the insertion vector at the WORD range the event
// log record format can address.
const maxInsertionIndex = 0xFFFF

/* codec-derived values */

// welCategoryFromPrival derives the event category from the severity,
// offset by one to keep categories in the positive range Windows expects.
func welCategoryFromPrival(prival int) uint16 {
	return uint16(SeverityFromPrival(prival)) + 1
}

// welTypeFromPrival maps severities onto event log record types.
func welTypeFromPrival(prival int) uint16 {
	switch SeverityFromPrival(prival) {
	case SeverityDebug:
		return WelTypeSuccess
	case SeverityNotice, SeverityInfo:
		return WelTypeInformation
	case SeverityWarning:
		return WelTypeWarning
	default:
		return WelTypeError
	}
}

// welEventIDFromPrival packs facility and record type into a dense,
// type-ordered event id matching the fixed message-resource file layout.
// The exact arithmetic is load-bearing for Windows message-table interop.
func welEventIDFromPrival(prival int) uint32 {
	return uint32(FacilityFromPrival(prival)) +
		uint32(welTypeFromPrival(prival))*23 + 1
}

/* entry-level accessors and mutators */

// WelCategory returns the entry's event category: the explicitly set value
// if there is one, otherwise the value derived from the current prival.
func (e *Entry) WelCategory() uint16 {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()
	if data.categorySet {
		return data.category
	}
	return welCategoryFromPrival(e.prival)
}

// WelEventID returns the entry's event id, explicit value first.
func (e *Entry) WelEventID() uint32 {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()
	if data.eventIDSet {
		return data.eventID
	}
	return welEventIDFromPrival(e.prival)
}

// WelType returns the entry's event log record type, explicit value first.
func (e *Entry) WelType() uint16 {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()
	if data.typeSet {
		return data.recordType
	}
	return welTypeFromPrival(e.prival)
}

// SetWelCategory overrides the derived event category. The override is
// one-way: later severity changes no longer affect the category and there is
// no way to revert to derivation.
func (e *Entry) SetWelCategory(category uint16) *Entry {
	data := e.wel
	data.mu.Lock()
	data.category = category
	data.categorySet = true
	data.mu.Unlock()
	recordSuccess()
	return e
}

// SetWelEventID overrides the derived event id, one-way.
func (e *Entry) SetWelEventID(eventID uint32) *Entry {
	data := e.wel
	data.mu.Lock()
	data.eventID = eventID
	data.eventIDSet = true
	data.mu.Unlock()
	recordSuccess()
	return e
}

// SetWelType overrides the derived record type, one-way.
func (e *Entry) SetWelType(recordType uint16) *Entry {
	data := e.wel
	data.mu.Lock()
	data.recordType = recordType
	data.typeSet = true
	data.mu.Unlock()
	recordSuccess()
	return e
}

// SetWelInsertionString sets the insertion string at the given index,
// replacing any prior value. If the index is beyond the current count, both
// conceptual arrays grow to index+1 with the new slots absent; growth and
// install happen inside a single critical section and are not separately
// observable.
func (e *Entry) SetWelInsertionString(index int, text string) error {
	wide, err := utf8ToWide(text)
	if err != nil {
		return err
	}

	data := e.wel
	data.mu.Lock()
	err = data.swapInsertionStringLocked(index, wide)
	data.mu.Unlock()
	if err != nil {
		return err
	}

	recordSuccess()
	return nil
}

// SetWelInsertionParam stores a weak reference to an existing param at the
// given index. The param takes precedence over any string previously set at
// the same index; the displaced string is released only after the lock is
// dropped. The param's owner must keep it alive for as long as reads may
// resolve it.
func (e *Entry) SetWelInsertionParam(index int, param *Param) error {
	if param == nil {
		return raiseNullArgument("param")
	}

	data := e.wel
	data.mu.Lock()
	if err := data.growInsertionsLocked(index); err != nil {
		data.mu.Unlock()
		return err
	}
	displaced := data.insertions[index].text
	data.insertions[index] = insertion{param: param}
	data.mu.Unlock()

	// The displaced string is dropped here, outside the critical section.
	_ = displaced

	recordSuccess()
	return nil
}

// SetWelInsertionStrings sets insertion strings for indexes 0 through
// len(texts)-1 under one lock acquisition. If an argument fails conversion,
// the batch stops there: earlier indexes remain committed, later ones are
// untouched. This partial-commit behavior is deliberate and documented, not
// a transaction.
func (e *Entry) SetWelInsertionStrings(texts ...string) error {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()

	for i, text := range texts {
		wide, err := utf8ToWide(text)
		if err != nil {
			return err
		}
		if err := data.swapInsertionStringLocked(i, wide); err != nil {
			return err
		}
	}

	recordSuccess()
	return nil
}

// WelInsertionString resolves the insertion value at the given index to
// text: from the referenced param if one is set, else from the owned string.
// Conversion happens on every call; nothing is cached.
func (e *Entry) WelInsertionString(index int) (string, error) {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()

	if index < 0 || index >= len(data.insertions) {
		return emptyString, raiseIndexOutOfBounds("insertion string", index)
	}

	slot := &data.insertions[index]
	if slot.param != nil {
		recordSuccess()
		return slot.param.Value(), nil
	}
	if slot.text != nil {
		text, err := wideToUTF8(slot.text)
		if err != nil {
			return emptyString, err
		}
		recordSuccess()
		return text, nil
	}

	recordSuccess()
	return emptyString, nil
}

// WelInsertionParam returns the param referenced at the given index, or nil
// when the slot holds no param reference.
func (e *Entry) WelInsertionParam(index int) (*Param, error) {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()

	if index < 0 || index >= len(data.insertions) {
		return nil, raiseIndexOutOfBounds("insertion string", index)
	}

	recordSuccess()
	return data.insertions[index].param, nil
}

// WelInsertionCount returns the allocated length of the insertion vector.
func (e *Entry) WelInsertionCount() int {
	data := e.wel
	data.mu.Lock()
	defer data.mu.Unlock()
	return len(data.insertions)
}

/* internal, caller holds data.mu */

func (data *WelData) growInsertionsLocked(index int) error {
	if index < 0 || index > maxInsertionIndex {
		return raiseIndexOutOfBounds("insertion string", index)
	}
	for len(data.insertions) <= index {
		data.insertions = append(data.insertions, insertion{})
	}
	return nil
}

func (data *WelData) swapInsertionStringLocked(index int, wide []uint16) error {
	if err := data.growInsertionsLocked(index); err != nil {
		return err
	}
	data.insertions[index] = insertion{text: wide}
	return nil
}

// copy deep-copies the WEL data while holding the source's lock. Param
// references are snapshotted to the string they resolve to right now rather
// than re-linked, since the source param's lifetime is independent of the
// copy's. A conversion failure aborts the copy with nothing retained.
func (data *WelData) copy() (*WelData, error) {
	data.mu.Lock()
	defer data.mu.Unlock()

	dataCopy := &WelData{
		category:    data.category,
		categorySet: data.categorySet,
		eventID:     data.eventID,
		eventIDSet:  data.eventIDSet,
		recordType:  data.recordType,
		typeSet:     data.typeSet,
	}

	if len(data.insertions) > 0 {
		dataCopy.insertions = make([]insertion, len(data.insertions))
		for i := range data.insertions {
			slot := &data.insertions[i]
			switch {
			case slot.param != nil:
				wide, err := utf8ToWide(slot.param.Value())
				if err != nil {
					return nil, err
				}
				dataCopy.insertions[i] = insertion{text: wide}
			case slot.text != nil:
				textCopy := make([]uint16, len(slot.text))
				copy(textCopy, slot.text)
				dataCopy.insertions[i] = insertion{text: textCopy}
			}
		}
	}

	return dataCopy, nil
}

// resolveInsertionStrings renders the full insertion vector for a report
// call, param references first, absent slots as empty strings. Called by the
// event log target at send time under the data lock.
func (data *WelData) resolveInsertionStrings() ([]string, error) {
	data.mu.Lock()
	defer data.mu.Unlock()

	resolved := make([]string, len(data.insertions))
	for i := range data.insertions {
		slot := &data.insertions[i]
		switch {
		case slot.param != nil:
			resolved[i] = slot.param.Value()
		case slot.text != nil:
			text, err := wideToUTF8(slot.text)
			if err != nil {
				return nil, err
			}
			resolved[i] = text
		}
	}
	return resolved, nil
}
