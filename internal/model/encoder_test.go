package model

import (
	"testing"

	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Encode(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder([]string{
		"has_https",
		"subdomain_www",
		"subdomain_",
		"domain_example",
		"suffix_com",
		"suffix_co.uk",
		"url_length",
		"subdomain_length",
	})
	require.NoError(t, err)

	row := enc.Encode(features.Extract("https://www.example.co.uk"))

	assert.Equal(t, []float64{1, 1, 0, 1, 0, 1, 25, 3}, row)
}

func TestEncoder_EmptySubdomainIsACategory(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder([]string{"subdomain_", "domain_example"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1}, enc.Encode(features.Extract("http://example.com")))
}

func TestEncoder_AbsentPartsSetNothing(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder([]string{"subdomain_", "domain_", "suffix_", "url_length"})
	require.NoError(t, err)

	v := features.Extract("http://")
	require.False(t, v.Decomposed())

	assert.Equal(t, []float64{0, 0, 0, 7}, enc.Encode(v))
}

func TestEncoder_UnknownCategorySetsNothing(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder([]string{"domain_google"})
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, enc.Encode(features.Extract("http://bing.com")))
}

func TestNewEncoder_Errors(t *testing.T) {
	t.Parallel()

	for _, cols := range [][]string{nil, {"url"}, {"label"}, {"is_ip", "is_ip"}} {
		_, err := NewEncoder(cols)
		require.ErrorIs(t, err, ErrFeatureMismatch, "%v", cols)
	}
}
