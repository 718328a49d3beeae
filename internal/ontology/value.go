package ontology

import (
	"encoding/json"
	"fmt"
)

// Value is a sealed interface for property values. Only IntValue, StringValue
// and BoolValue implement it. NO float variant - floats break deterministic
// comparison and content hashing.
type Value interface {
	value() // Sealed - only these types implement it
}

// IntValue is an integer property value. Always int64, never float64.
type IntValue int64

func (IntValue) value() {}

// StringValue is a string property value.
type StringValue string

func (StringValue) value() {}

// BoolValue is a boolean property value.
type BoolValue bool

func (BoolValue) value() {}

// MarshalJSON implementations keep Value fields directly serializable.

func (v IntValue) MarshalJSON() ([]byte, error)    { return json.Marshal(int64(v)) }
func (v StringValue) MarshalJSON() ([]byte, error) { return json.Marshal(string(v)) }
func (v BoolValue) MarshalJSON() ([]byte, error)   { return json.Marshal(bool(v)) }

// ToValue converts a decoded YAML/CUE/JSON scalar into a Value.
// Floats are rejected, matching the no-float rule.
func ToValue(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return IntValue(val), nil
	case int64:
		return IntValue(val), nil
	case float64, float32:
		return nil, fmt.Errorf("float property values are forbidden: %v", val)
	case nil:
		return nil, fmt.Errorf("null property values are forbidden")
	default:
		return nil, fmt.Errorf("unsupported property value type: %T", v)
	}
}

// Compare applies op to two values. Ordering operators require both sides to
// be IntValue; eq/ne work across any pair of equal types. A type mismatch or
// an ordering comparison on non-integers returns an error so callers can
// fail closed.
func Compare(left Value, op CompareOp, right Value) (bool, error) {
	switch op {
	case CmpEqual:
		ok, err := sameType(left, right)
		if err != nil {
			return false, err
		}
		return ok, nil
	case CmpNotEqual:
		ok, err := sameType(left, right)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case CmpLessThan, CmpGreaterThan, CmpLessOrEqual, CmpGreaterOrEqual:
		l, lok := left.(IntValue)
		r, rok := right.(IntValue)
		if !lok || !rok {
			return false, fmt.Errorf("operator %s requires integer operands, got %T and %T", op, left, right)
		}
		switch op {
		case CmpLessThan:
			return l < r, nil
		case CmpGreaterThan:
			return l > r, nil
		case CmpLessOrEqual:
			return l <= r, nil
		default:
			return l >= r, nil
		}
	default:
		return false, fmt.Errorf("unknown comparison operator: %q", op)
	}
}

// sameType reports value equality, erroring on mixed types rather than
// silently comparing unequal kinds.
func sameType(left, right Value) (bool, error) {
	switch l := left.(type) {
	case IntValue:
		r, ok := right.(IntValue)
		if !ok {
			return false, typeMismatch(left, right)
		}
		return l == r, nil
	case StringValue:
		r, ok := right.(StringValue)
		if !ok {
			return false, typeMismatch(left, right)
		}
		return l == r, nil
	case BoolValue:
		r, ok := right.(BoolValue)
		if !ok {
			return false, typeMismatch(left, right)
		}
		return l == r, nil
	default:
		return false, fmt.Errorf("unsupported value type: %T", left)
	}
}

func typeMismatch(left, right Value) error {
	return fmt.Errorf("cannot compare %T with %T", left, right)
}
