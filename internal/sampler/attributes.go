package sampler

import (
	"bytes"
	"encoding/json"
)

// None is the display value of a layer left empty.
const None = "none"

// TierAttribute is the synthetic attribute naming a composition's tier.
const TierAttribute = "Tier"

// Attribute is one display attribute of a composition.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute record. Names are unique.
type Attributes []Attribute

// Get returns the value of an attribute.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set assigns an attribute, replacing any previous value in place.
func (a *Attributes) Set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

// SetDefault assigns an attribute only if it is not set yet.
func (a *Attributes) SetDefault(name, value string) {
	if _, ok := a.Get(name); !ok {
		*a = append(*a, Attribute{Name: name, Value: value})
	}
}

// MarshalJSON encodes the attributes as an object, keeping their order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
