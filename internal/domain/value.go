package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AttributeType is the declared type of a class attribute.
type AttributeType string

const (
	AttributeTypeString   AttributeType = "STRING"
	AttributeTypeNumber   AttributeType = "NUMBER"
	AttributeTypeBoolean  AttributeType = "BOOLEAN"
	AttributeTypeDouble   AttributeType = "DOUBLE"
	AttributeTypeDate     AttributeType = "DATE"
	AttributeTypeDateTime AttributeType = "DATETIME"
)

func (t AttributeType) String() string { return string(t) }

func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeString, AttributeTypeNumber, AttributeTypeBoolean,
		AttributeTypeDouble, AttributeTypeDate, AttributeTypeDateTime:
		return true
	}
	return false
}

// Wire formats for temporal values. Local time, no offset.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// AttributeValue is a typed element attribute. The set of implementations is
// closed: exactly one per AttributeType. Values convert to and from their
// wire-string representation via Format and ParseAttributeValue, which
// round-trip exactly for every type.
type AttributeValue interface {
	// AttrName returns the attribute name this value is keyed by.
	AttrName() string
	// Type returns the discriminant used for serialization.
	Type() AttributeType
	// Format returns the wire-string representation of the value.
	Format() string
	// Equal reports typed equality with another value: same concrete type,
	// same name, same value.
	Equal(other AttributeValue) bool
}

// StringValue holds a STRING attribute.
type StringValue struct {
	Name  string
	Value string
}

func (v StringValue) AttrName() string    { return v.Name }
func (v StringValue) Type() AttributeType { return AttributeTypeString }
func (v StringValue) Format() string      { return v.Value }
func (v StringValue) Equal(other AttributeValue) bool {
	o, ok := other.(StringValue)
	return ok && o.Name == v.Name && o.Value == v.Value
}

// NumberValue holds a NUMBER attribute as a 64-bit signed integer.
type NumberValue struct {
	Name  string
	Value int64
}

func (v NumberValue) AttrName() string    { return v.Name }
func (v NumberValue) Type() AttributeType { return AttributeTypeNumber }
func (v NumberValue) Format() string      { return strconv.FormatInt(v.Value, 10) }
func (v NumberValue) Equal(other AttributeValue) bool {
	o, ok := other.(NumberValue)
	return ok && o.Name == v.Name && o.Value == v.Value
}

// DoubleValue holds a DOUBLE attribute as an IEEE-754 double.
type DoubleValue struct {
	Name  string
	Value float64
}

func (v DoubleValue) AttrName() string    { return v.Name }
func (v DoubleValue) Type() AttributeType { return AttributeTypeDouble }
func (v DoubleValue) Format() string      { return strconv.FormatFloat(v.Value, 'g', -1, 64) }
func (v DoubleValue) Equal(other AttributeValue) bool {
	o, ok := other.(DoubleValue)
	return ok && o.Name == v.Name && o.Value == v.Value
}

// BooleanValue holds a BOOLEAN attribute.
type BooleanValue struct {
	Name  string
	Value bool
}

func (v BooleanValue) AttrName() string    { return v.Name }
func (v BooleanValue) Type() AttributeType { return AttributeTypeBoolean }
func (v BooleanValue) Format() string      { return strconv.FormatBool(v.Value) }
func (v BooleanValue) Equal(other AttributeValue) bool {
	o, ok := other.(BooleanValue)
	return ok && o.Name == v.Name && o.Value == v.Value
}

// DateValue holds a DATE attribute (calendar date, no time component).
type DateValue struct {
	Name  string
	Value time.Time
}

func (v DateValue) AttrName() string    { return v.Name }
func (v DateValue) Type() AttributeType { return AttributeTypeDate }
func (v DateValue) Format() string      { return v.Value.Format(DateLayout) }
func (v DateValue) Equal(other AttributeValue) bool {
	o, ok := other.(DateValue)
	return ok && o.Name == v.Name && o.Value.Equal(v.Value)
}

// DateTimeValue holds a DATETIME attribute (local date-time, no offset).
type DateTimeValue struct {
	Name  string
	Value time.Time
}

func (v DateTimeValue) AttrName() string    { return v.Name }
func (v DateTimeValue) Type() AttributeType { return AttributeTypeDateTime }
func (v DateTimeValue) Format() string      { return v.Value.Format(DateTimeLayout) }
func (v DateTimeValue) Equal(other AttributeValue) bool {
	o, ok := other.(DateTimeValue)
	return ok && o.Name == v.Name && o.Value.Equal(v.Value)
}

// ParseAttributeValue converts a wire-string value into its typed form.
//
// BOOLEAN parsing is deliberately lenient: "true" (case-insensitive) is true
// and every other literal is false, never an error. This mirrors long-standing
// behavior that existing clients depend on.
func ParseAttributeValue(name string, typ AttributeType, raw string) (AttributeValue, error) {
	switch typ {
	case AttributeTypeString:
		return StringValue{Name: name, Value: raw}, nil

	case AttributeTypeNumber:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &InvalidAttributeTypeError{Attribute: name, Type: typ, Raw: raw}
		}
		return NumberValue{Name: name, Value: n}, nil

	case AttributeTypeDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &InvalidAttributeTypeError{Attribute: name, Type: typ, Raw: raw}
		}
		return DoubleValue{Name: name, Value: f}, nil

	case AttributeTypeBoolean:
		return BooleanValue{Name: name, Value: strings.EqualFold(raw, "true")}, nil

	case AttributeTypeDate:
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &InvalidAttributeTypeError{Attribute: name, Type: typ, Raw: raw}
		}
		return DateValue{Name: name, Value: d}, nil

	case AttributeTypeDateTime:
		dt, err := time.Parse(DateTimeLayout, raw)
		if err != nil {
			return nil, &InvalidAttributeTypeError{Attribute: name, Type: typ, Raw: raw}
		}
		return DateTimeValue{Name: name, Value: dt}, nil
	}

	return nil, &InvalidAttributeTypeError{Attribute: name, Type: typ, Raw: raw}
}

// ---------------------------------------------------------------------------
// JSON envelope
//
// Attribute values serialize as {"name":..,"type":..,"value":..} with the
// value in its wire-string form, so the JSON shape is stable across types and
// decoding goes through the same parser as client input.
// ---------------------------------------------------------------------------

type attributeValueEnvelope struct {
	Name  string        `json:"name"`
	Type  AttributeType `json:"type"`
	Value string        `json:"value"`
}

// MarshalAttributeValue encodes a single value into its JSON envelope.
func MarshalAttributeValue(v AttributeValue) ([]byte, error) {
	return json.Marshal(attributeValueEnvelope{
		Name:  v.AttrName(),
		Type:  v.Type(),
		Value: v.Format(),
	})
}

// UnmarshalAttributeValue decodes a single value from its JSON envelope.
func UnmarshalAttributeValue(data []byte) (AttributeValue, error) {
	var env attributeValueEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode attribute value: %w", err)
	}
	return ParseAttributeValue(env.Name, env.Type, env.Value)
}

// AttributeValues is an ordered attribute set as stored on an element.
type AttributeValues []AttributeValue

// Get returns the value with the given name (case-insensitive) if present.
func (vs AttributeValues) Get(name string) (AttributeValue, bool) {
	for _, v := range vs {
		if strings.EqualFold(v.AttrName(), name) {
			return v, true
		}
	}
	return nil, false
}

// Merge returns a copy of vs with each incoming value replacing the entry of
// the same name, or appended when the name is new. Order of existing entries
// is preserved.
func (vs AttributeValues) Merge(incoming []AttributeValue) AttributeValues {
	out := make(AttributeValues, len(vs))
	copy(out, vs)

	for _, in := range incoming {
		replaced := false
		for i, cur := range out {
			if strings.EqualFold(cur.AttrName(), in.AttrName()) {
				out[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, in)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (vs AttributeValues) MarshalJSON() ([]byte, error) {
	envs := make([]attributeValueEnvelope, len(vs))
	for i, v := range vs {
		envs[i] = attributeValueEnvelope{Name: v.AttrName(), Type: v.Type(), Value: v.Format()}
	}
	return json.Marshal(envs)
}

// UnmarshalJSON implements json.Unmarshaler.
func (vs *AttributeValues) UnmarshalJSON(data []byte) error {
	var envs []attributeValueEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return fmt.Errorf("decode attribute values: %w", err)
	}

	out := make(AttributeValues, 0, len(envs))
	for _, env := range envs {
		v, err := ParseAttributeValue(env.Name, env.Type, env.Value)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*vs = out
	return nil
}
