package gqlbuilder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToLiteralScalars(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 2024, "2024"},
		{"negative int", -5, "-5"},
		{"int64", int64(9007199254740993), "9007199254740993"},
		{"float", 12.5, "12.5"},
		{"string", "cotton", `"cotton"`},
		{"string with quotes", `say "hi"`, `"say \"hi\""`},
		{"asc enum stays bare", "ASC", "ASC"},
		{"desc enum stays bare", "DESC", "DESC"},
		{"enum prefix is still a string", "ASC_COMPANY", `"ASC_COMPANY"`},
		{"empty array", []interface{}{}, "[]"},
		{"empty object", map[string]interface{}{}, "{  }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLiteral(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToLiteralNestedFilterTree(t *testing.T) {
	filter := map[string]interface{}{
		"and": []interface{}{
			map[string]interface{}{"YEAR": map[string]interface{}{"eq": 2024}},
			map[string]interface{}{"TRADE_FLOW": map[string]interface{}{"eq": "1"}},
		},
	}

	got, err := ToLiteral(filter)
	require.NoError(t, err)
	require.Equal(t, `{ and: [{ YEAR: { eq: 2024 } }, { TRADE_FLOW: { eq: "1" } }] }`, got)
}

func TestToLiteralOrderByEnum(t *testing.T) {
	got, err := ToLiteral(map[string]interface{}{"ROW": "ASC"})
	require.NoError(t, err)
	require.Equal(t, "{ ROW: ASC }", got)

	got, err = ToLiteral(map[string]interface{}{"NAME": "ASC_COMPANY"})
	require.NoError(t, err)
	require.Equal(t, `{ NAME: "ASC_COMPANY" }`, got)
}

func TestToLiteralSortsObjectKeys(t *testing.T) {
	obj := map[string]interface{}{
		"b": 2,
		"a": 1,
		"c": 3,
	}
	for range 10 {
		got, err := ToLiteral(obj)
		require.NoError(t, err)
		require.Equal(t, "{ a: 1, b: 2, c: 3 }", got)
	}
}

func TestToLiteralNonFiniteNumbers(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ToLiteral(v)
		var invalid *InvalidLiteralError
		require.ErrorAs(t, err, &invalid)
	}
}

func TestToLiteralRejectsNonJSONValues(t *testing.T) {
	_, err := ToLiteral(func() {})
	var invalid *InvalidLiteralError
	require.ErrorAs(t, err, &invalid)

	_, err = ToLiteral(make(chan int))
	require.ErrorAs(t, err, &invalid)
}

func TestToLiteralCyclicInputFails(t *testing.T) {
	cyclic := map[string]interface{}{}
	cyclic["self"] = cyclic

	_, err := ToLiteral(cyclic)
	var invalid *InvalidLiteralError
	require.ErrorAs(t, err, &invalid)
}

func TestToLiteralStringSlice(t *testing.T) {
	got, err := ToLiteral([]string{"IND", "CHN"})
	require.NoError(t, err)
	require.Equal(t, `["IND", "CHN"]`, got)
}
