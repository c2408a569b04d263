package rule_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/black12-ag/reconcile/internal/rule"
)

func TestValue_JSONRoundTrip(t *testing.T) {
	type testCase struct {
		name     string
		value    rule.Value
		wantJSON string
	}

	tests := []testCase{
		{name: "String", value: rule.String("booking"), wantJSON: `"booking"`},
		{name: "Number", value: rule.Number(50.4), wantJSON: `50.4`},
		{name: "Bool", value: rule.Bool(true), wantJSON: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))

			var got rule.Value
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestValue_UnmarshalRejectsCompositeTypes(t *testing.T) {
	var v rule.Value
	assert.Error(t, json.Unmarshal([]byte(`{"nested":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestValue_Accessors(t *testing.T) {
	s, ok := rule.String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = rule.String("x").AsNumber()
	assert.False(t, ok)

	n, ok := rule.Number(1.5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 1.5, n)

	b, ok := rule.Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestCondition_JSONRoundTrip(t *testing.T) {
	tolerance := 0.05
	cond := rule.Condition{
		Field:     "amount",
		Operator:  rule.OpWithin,
		Value:     rule.Number(50),
		Tolerance: &tolerance,
	}

	data, err := json.Marshal(cond)
	require.NoError(t, err)

	var got rule.Condition
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, cond, got)
}
