package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKeys(t *testing.T) {
	reg := Default()
	require.Equal(t, []string{
		"commodities",
		"countries",
		"monthly_exports",
		"monthly_imports",
		"transactions",
	}, reg.Keys())
}

func TestLookupKnownResolver(t *testing.T) {
	reg := Default()

	desc, err := reg.Lookup("countries")
	require.NoError(t, err)
	require.Equal(t, "countryAreas", desc.QueryName)
	require.True(t, desc.HasField("ISO3"))
	require.False(t, desc.HasField("iso3"))
	require.True(t, desc.IsNumericField("COUNTRY_ID"))
	require.False(t, desc.IsNumericField("ISO3"))
}

func TestLookupUnknownResolver(t *testing.T) {
	reg := Default()

	_, err := reg.Lookup("no-such-table")
	var unknown *UnknownResolverError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "no-such-table", unknown.Key)
	require.Equal(t, reg.Keys(), unknown.Known)
	require.Contains(t, err.Error(), "no-such-table")
	require.Contains(t, err.Error(), "monthly_imports")
}

func TestNumericFieldsAreSubsetOfFields(t *testing.T) {
	reg := Default()
	for _, key := range reg.Keys() {
		desc, err := reg.Lookup(key)
		require.NoError(t, err)
		for _, nf := range desc.NumericFields {
			require.True(t, desc.HasField(nf), "%s: numeric field %s not declared", key, nf)
		}
	}
}

func TestNewPanicsOnNumericFieldOutsideFields(t *testing.T) {
	require.Panics(t, func() {
		New(map[string]Descriptor{
			"bad": {
				QueryName:     "bad",
				Fields:        []string{"A"},
				NumericFields: []string{"B"},
			},
		})
	})
}

func TestKeysReturnsCopy(t *testing.T) {
	reg := Default()
	keys := reg.Keys()
	keys[0] = "mutated"
	require.NotEqual(t, keys[0], reg.Keys()[0])
}
