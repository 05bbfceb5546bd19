package types

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies a Value variant
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindString
	KindBoolean
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a runtime cell value. The set of implementations is closed:
// NullValue, IntValue, FloatValue, StringValue and BoolValue.
type Value interface {
	Kind() ValueKind
	// String is the display form
	String() string
	// Literal is the SQL form that lexes back to the same value
	Literal() string
	value()
}

// NullValue is the backfill value written by ALTER TABLE ... ADD and by
// INSERT column lists that leave a column out
type NullValue struct{}

// IntValue is an INTEGER value
type IntValue int64

// FloatValue is a FLOAT value
type FloatValue float64

// StringValue is a TEXT, VARCHAR or ENUM value
type StringValue string

// BoolValue is a BOOLEAN value
type BoolValue bool

// Null is the single NULL value
var Null Value = NullValue{}

func (NullValue) Kind() ValueKind   { return KindNull }
func (IntValue) Kind() ValueKind    { return KindInteger }
func (FloatValue) Kind() ValueKind  { return KindFloat }
func (StringValue) Kind() ValueKind { return KindString }
func (BoolValue) Kind() ValueKind   { return KindBoolean }

func (NullValue) value()   {}
func (IntValue) value()    {}
func (FloatValue) value()  {}
func (StringValue) value() {}
func (BoolValue) value()   {}

func (NullValue) String() string { return "NULL" }

func (v IntValue) String() string { return strconv.FormatInt(int64(v), 10) }

func (v FloatValue) String() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (v StringValue) String() string { return string(v) }

func (v BoolValue) String() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (v NullValue) Literal() string   { return v.String() }
func (v IntValue) Literal() string    { return v.String() }
func (v FloatValue) Literal() string  { return v.String() }
func (v StringValue) Literal() string { return QuoteString(string(v)) }
func (v BoolValue) Literal() string   { return v.String() }

// QuoteString renders s as a single-quoted SQL string literal
func QuoteString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// IsNull reports whether v is the NULL value
func IsNull(v Value) bool {
	_, ok := v.(NullValue)
	return ok
}

// Equal reports whether two values are identical, kind included
func Equal(a, b Value) bool {
	return a.Kind() == b.Kind() && a == b
}

// Compare orders two non-NULL values. Integers and floats compare
// numerically, strings lexicographically and booleans with FALSE < TRUE.
// Any other pairing is a type mismatch.
func Compare(a, b Value) (int, error) {
	switch x := a.(type) {
	case IntValue:
		switch y := b.(type) {
		case IntValue:
			return cmp.Compare(x, y), nil
		case FloatValue:
			return cmp.Compare(float64(x), float64(y)), nil
		}
	case FloatValue:
		switch y := b.(type) {
		case IntValue:
			return cmp.Compare(float64(x), float64(y)), nil
		case FloatValue:
			return cmp.Compare(x, y), nil
		}
	case StringValue:
		if y, ok := b.(StringValue); ok {
			return strings.Compare(string(x), string(y)), nil
		}
	case BoolValue:
		if y, ok := b.(BoolValue); ok {
			return cmp.Compare(boolRank(x), boolRank(y)), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, a.Kind(), b.Kind())
}

func boolRank(b BoolValue) int {
	if b {
		return 1
	}
	return 0
}
