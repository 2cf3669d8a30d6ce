package logpile

// Element is an RFC 5424 structured-data element: an SD-ID plus an ordered
// sequence of params. Element names are unique within an entry; param names
// within an element are not, since RFC 5424 permits repeated SD-PARAM names.
type Element struct {
	name   string
	params []*Param
}

// NewElement creates an element with the given SD-ID name and no params.
func NewElement(name string) (*Element, error) {
	if name == emptyString {
		return nil, raiseNullArgument("element name")
	}
	if err := validateSDName(name); err != nil {
		return nil, err
	}

	recordSuccess()
	return &Element{name: name}, nil
}

// Name returns the element's SD-ID.
func (el *Element) Name() string {
	return el.name
}

// AddParam appends a new param with the given name and value. Duplicate param
// names are allowed; no uniqueness check happens at this layer.
func (el *Element) AddParam(name, value string) (*Element, error) {
	param, err := NewParam(name, value)
	if err != nil {
		return nil, err
	}
	el.params = append(el.params, param)
	return el, nil
}

// AppendParam appends an existing param to the element. The element takes
// ownership of the param.
func (el *Element) AppendParam(param *Param) (*Element, error) {
	if param == nil {
		return nil, raiseNullArgument("param")
	}
	el.params = append(el.params, param)
	recordSuccess()
	return el, nil
}

// ParamCount returns the number of params in the element.
func (el *Element) ParamCount() int {
	return len(el.params)
}

// Param returns the param at the given index.
func (el *Element) Param(index int) (*Param, error) {
	if index < 0 || index >= len(el.params) {
		return nil, raiseIndexOutOfBounds("param", index)
	}
	recordSuccess()
	return el.params[index], nil
}

// FindParam returns the index of the first param with the given name, by
// linear scan. Structured-data sets are small, so no index is kept.
func (el *Element) FindParam(name string) (int, error) {
	for i, param := range el.params {
		if param.name == name {
			recordSuccess()
			return i, nil
		}
	}
	return -1, raiseParamNotFound()
}

func (el *Element) copy() *Element {
	elementCopy := &Element{name: el.name}
	if len(el.params) > 0 {
		elementCopy.params = make([]*Param, len(el.params))
		for i, param := range el.params {
			elementCopy.params[i] = param.copy()
		}
	}
	return elementCopy
}
