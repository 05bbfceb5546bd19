package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrTypeMismatch is returned when a value does not inhabit a column's type
// or when two values cannot be compared.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeKind identifies a DataType variant
type TypeKind int

const (
	// TypeInteger is a 64-bit signed integer
	TypeInteger TypeKind = iota
	// TypeFloat is a 64-bit float
	TypeFloat
	// TypeText is an unbounded string
	TypeText
	// TypeVarchar is a string bounded by MaxLen code points
	TypeVarchar
	// TypeEnum is a string drawn from Variants
	TypeEnum
	// TypeBoolean is TRUE or FALSE
	TypeBoolean
)

var typeKindNames = map[TypeKind]string{
	TypeInteger: "INTEGER",
	TypeFloat:   "FLOAT",
	TypeText:    "TEXT",
	TypeVarchar: "VARCHAR",
	TypeEnum:    "ENUM",
	TypeBoolean: "BOOLEAN",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// MarshalText encodes the kind by name
func (k TypeKind) MarshalText() ([]byte, error) {
	name, ok := typeKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown type kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind from its name
func (k *TypeKind) UnmarshalText(text []byte) error {
	for kind, name := range typeKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown type kind %q", string(text))
}

// DataType is the declared type of a column. MaxLen is only meaningful for
// VARCHAR and Variants only for ENUM.
type DataType struct {
	Kind     TypeKind `json:"kind"`
	MaxLen   int      `json:"max_len,omitempty"`
	Variants []string `json:"variants,omitempty"`
}

func IntegerType() DataType { return DataType{Kind: TypeInteger} }
func FloatType() DataType   { return DataType{Kind: TypeFloat} }
func TextType() DataType    { return DataType{Kind: TypeText} }
func BooleanType() DataType { return DataType{Kind: TypeBoolean} }

// VarcharType returns a VARCHAR(maxLen) type
func VarcharType(maxLen int) DataType {
	return DataType{Kind: TypeVarchar, MaxLen: maxLen}
}

// EnumType returns an ENUM over the given variants, in order
func EnumType(variants ...string) DataType {
	v := make([]string, len(variants))
	copy(v, variants)
	return DataType{Kind: TypeEnum, Variants: v}
}

// String renders the type the way it is declared in SQL
func (t DataType) String() string {
	switch t.Kind {
	case TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", t.MaxLen)
	case TypeEnum:
		quoted := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			quoted[i] = QuoteString(v)
		}
		return fmt.Sprintf("ENUM(%s)", strings.Join(quoted, ", "))
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two types describe the same set of values
func (t DataType) Equal(o DataType) bool {
	if t.Kind != o.Kind || t.MaxLen != o.MaxLen || len(t.Variants) != len(o.Variants) {
		return false
	}
	for i := range t.Variants {
		if t.Variants[i] != o.Variants[i] {
			return false
		}
	}
	return true
}

// HasVariant reports whether s is a member of an ENUM type
func (t DataType) HasVariant(s string) bool {
	for _, v := range t.Variants {
		if v == s {
			return true
		}
	}
	return false
}

// Check validates v against the type and returns the value in the form it is
// stored under this type. Integers are widened for FLOAT columns; NULL is
// accepted by every type.
func (t DataType) Check(v Value) (Value, error) {
	if _, ok := v.(NullValue); ok {
		return v, nil
	}

	switch t.Kind {
	case TypeInteger:
		if i, ok := v.(IntValue); ok {
			return i, nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case FloatValue:
			return n, nil
		case IntValue:
			return FloatValue(n), nil
		}
	case TypeText:
		if s, ok := v.(StringValue); ok {
			return s, nil
		}
	case TypeVarchar:
		if s, ok := v.(StringValue); ok {
			if n := utf8.RuneCountInString(string(s)); n > t.MaxLen {
				return nil, fmt.Errorf("%w: %s exceeds %s (length %d)", ErrTypeMismatch, s, t, n)
			}
			return s, nil
		}
	case TypeEnum:
		if s, ok := v.(StringValue); ok {
			if !t.HasVariant(string(s)) {
				return nil, fmt.Errorf("%w: %s is not a member of %s", ErrTypeMismatch, s, t)
			}
			return s, nil
		}
	case TypeBoolean:
		if b, ok := v.(BoolValue); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s value %s does not fit %s", ErrTypeMismatch, v.Kind(), v, t)
}

// Column is a named, typed position in a table schema
type Column struct {
	Name string   `json:"name"`
	Type DataType `json:"type"`
}

func (c Column) String() string {
	return c.Name + " " + c.Type.String()
}
