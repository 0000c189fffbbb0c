package storefront_test

import (
	"testing"

	"github.com/AveGamers/HolySMP-Website/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		input    string
		valid    bool
		raw      string
		platform storefront.Platform
	}{
		{input: "Steve_1", valid: true, raw: "Steve_1", platform: storefront.PlatformJava},
		{input: "  Max123 ", valid: true, raw: "Max123", platform: storefront.PlatformJava},
		{input: "abc", valid: true, raw: "abc", platform: storefront.PlatformJava},
		{input: "ABCDEFGHIJKLMNOP", valid: true, raw: "ABCDEFGHIJKLMNOP", platform: storefront.PlatformJava},
		{input: ".Steve", valid: true, raw: ".Steve", platform: storefront.PlatformBedrock},
		{input: ".Steve Jobs", valid: true, raw: ".Steve Jobs", platform: storefront.PlatformBedrock},
		{input: "ab"},
		{input: "ABCDEFGHIJKLMNOPQ"},
		{input: "Steve!"},
		{input: "Steve Jobs"},
		{input: ".a"},
		{input: ".Steve!"},
		{input: ""},
		{input: "   "},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			id, err := storefront.ParseIdentity(tc.input)
			if !tc.valid {
				var idErr *storefront.IdentityError
				assert.ErrorAs(t, err, &idErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.raw, id.Raw)
			assert.Equal(t, tc.platform, id.Platform)
		})
	}
}

func TestIdentity_Name(t *testing.T) {
	id, err := storefront.ParseIdentity(".Steve")
	require.NoError(t, err)
	assert.Equal(t, "Steve", id.Name())

	id, err = storefront.ParseIdentity("Steve")
	require.NoError(t, err)
	assert.Equal(t, "Steve", id.Name())
}

func TestIdentityError_NamesPlatform(t *testing.T) {
	_, err := storefront.ParseIdentity(".a")
	var idErr *storefront.IdentityError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, storefront.PlatformBedrock, idErr.Platform)
	assert.Contains(t, err.Error(), "bedrock")
}
