package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CSRF_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.False(t, cfg.IsProduction())

	rate, err := cfg.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, "0.18", rate.String())
}

func TestLoadConfigRejectsBadTaxRate(t *testing.T) {
	t.Setenv("CSRF_SECRET", "test-secret")

	for _, v := range []string{"abc", "0", "-0.1", "1", "18"} {
		t.Setenv("GST_RATE", v)
		_, err := LoadConfig()
		assert.Error(t, err, v)
	}
}

func TestLoadConfigRequiresCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}
