package logpile

// maxSDNameLength is the RFC 5424 limit for SD-IDs and param names.
const maxSDNameLength = 32

// Param is a single structured-data name/value pair. The value is held as a
// byte sequence with its length tracked by the slice; Value exposes it as
// text on demand.
//
// Params are owned by the element they were added to. A param referenced by
// a WEL insertion slot is not kept alive by that slot; it must outlive any
// read that resolves it.
type Param struct {
	name  string
	value []byte
}

// NewParam creates a param with the given name and value. The name must be a
// valid RFC 5424 SD-NAME; the value may be any UTF-8 text.
func NewParam(name, value string) (*Param, error) {
	if name == emptyString {
		return nil, raiseNullArgument("param name")
	}
	if err := validateSDName(name); err != nil {
		return nil, err
	}

	recordSuccess()
	return &Param{
		name:  name,
		value: []byte(value),
	}, nil
}

// Name returns the param's name.
func (p *Param) Name() string {
	return p.name
}

// Value returns the param's value as text.
func (p *Param) Value() string {
	return string(p.value)
}

// ValueBytes returns the raw value. The returned slice is the param's own
// buffer; callers must not modify it.
func (p *Param) ValueBytes() []byte {
	return p.value
}

// SetValue replaces the param's value. Params carry no lock of their own;
// callers mutating a param shared across goroutines must synchronize.
func (p *Param) SetValue(value string) *Param {
	p.value = []byte(value)
	return p
}

func (p *Param) copy() *Param {
	valueCopy := make([]byte, len(p.value))
	copy(valueCopy, p.value)
	return &Param{
		name:  p.name,
		value: valueCopy,
	}
}

// validateSDName checks a structured-data name against the RFC 5424 SD-NAME
// grammar: 1 to 32 printable US-ASCII characters excluding '=', ']', '"' and
// space.
func validateSDName(name string) error {
	if len(name) > maxSDNameLength {
		return raiseStringTooLong(len(name))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '!' || c > '~' || c == '=' || c == ']' || c == '"' {
			return raiseInvalidEncoding("structured data names must be printable US-ASCII without '=', ']', '\"' or spaces")
		}
	}
	return nil
}
