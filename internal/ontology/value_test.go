package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{"int", 5, IntValue(5)},
		{"int64", int64(-3), IntValue(-3)},
		{"string", "plains", StringValue("plains")},
		{"bool", true, BoolValue(true)},
		{"already a value", IntValue(9), IntValue(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ToValue(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestToValueRejects(t *testing.T) {
	for _, input := range []any{1.5, float32(2), nil, []int{1}} {
		_, err := ToValue(input)
		assert.Error(t, err, "%T", input)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		left     Value
		op       CompareOp
		right    Value
		expected bool
	}{
		{"int eq", IntValue(3), CmpEqual, IntValue(3), true},
		{"int ne", IntValue(3), CmpNotEqual, IntValue(4), true},
		{"int lt", IntValue(2), CmpLessThan, IntValue(3), true},
		{"int le equal", IntValue(3), CmpLessOrEqual, IntValue(3), true},
		{"int gt", IntValue(5), CmpGreaterThan, IntValue(3), true},
		{"int ge less", IntValue(2), CmpGreaterOrEqual, IntValue(3), false},
		{"string eq", StringValue("a"), CmpEqual, StringValue("a"), true},
		{"string ne", StringValue("a"), CmpNotEqual, StringValue("b"), true},
		{"bool eq", BoolValue(true), CmpEqual, BoolValue(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.left, tt.op, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompareErrors(t *testing.T) {
	// Type mismatch fails so callers can deny fail-closed.
	_, err := Compare(IntValue(1), CmpEqual, StringValue("1"))
	require.Error(t, err)

	// Ordering on non-integers fails.
	_, err = Compare(StringValue("a"), CmpLessThan, StringValue("b"))
	require.Error(t, err)

	_, err = Compare(BoolValue(true), CmpGreaterOrEqual, BoolValue(false))
	require.Error(t, err)
}
