package types

import (
	"encoding/json"
	"fmt"
)

// jsonValue tags a Value with its kind. Exactly one field is set.
type jsonValue struct {
	Null   bool     `json:"null,omitempty"`
	Int    *int64   `json:"int,omitempty"`
	Float  *float64 `json:"float,omitempty"`
	String *string  `json:"string,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
}

func toJSONValue(v Value) (jsonValue, error) {
	switch x := v.(type) {
	case NullValue:
		return jsonValue{Null: true}, nil
	case IntValue:
		i := int64(x)
		return jsonValue{Int: &i}, nil
	case FloatValue:
		f := float64(x)
		return jsonValue{Float: &f}, nil
	case StringValue:
		s := string(x)
		return jsonValue{String: &s}, nil
	case BoolValue:
		b := bool(x)
		return jsonValue{Bool: &b}, nil
	default:
		return jsonValue{}, fmt.Errorf("cannot encode value of type %T", v)
	}
}

func fromJSONValue(j jsonValue) (Value, error) {
	switch {
	case j.Null:
		return Null, nil
	case j.Int != nil:
		return IntValue(*j.Int), nil
	case j.Float != nil:
		return FloatValue(*j.Float), nil
	case j.String != nil:
		return StringValue(*j.String), nil
	case j.Bool != nil:
		return BoolValue(*j.Bool), nil
	default:
		return nil, fmt.Errorf("value has no kind")
	}
}

// MarshalValues encodes a row of values as a JSON array of tagged values
func MarshalValues(values []Value) ([]byte, error) {
	out := make([]jsonValue, len(values))
	for i, v := range values {
		j, err := toJSONValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return json.Marshal(out)
}

// UnmarshalValues decodes what MarshalValues produced
func UnmarshalValues(data []byte) ([]Value, error) {
	var in []jsonValue
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	values := make([]Value, len(in))
	for i, j := range in {
		v, err := fromJSONValue(j)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}
