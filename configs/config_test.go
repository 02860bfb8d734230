package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefault(t *testing.T) {
	t.Setenv("SPACEHUB_TEST_VALUE", "")
	assert.Equal(t, "fallback", ConfigDefault("SPACEHUB_TEST_VALUE", "fallback"))

	t.Setenv("SPACEHUB_TEST_VALUE", "set")
	assert.Equal(t, "set", ConfigDefault("SPACEHUB_TEST_VALUE", "fallback"))
}

func TestConfigInt(t *testing.T) {
	t.Setenv("SPACEHUB_TEST_INT", "7")
	assert.Equal(t, 7, ConfigInt("SPACEHUB_TEST_INT", 1))

	t.Setenv("SPACEHUB_TEST_INT", "seven")
	assert.Equal(t, 1, ConfigInt("SPACEHUB_TEST_INT", 1))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FREE_TIER_MAX_LISTINGS", "")
	t.Setenv("PAYSTACK_BASE_URL", "")
	t.Setenv("PORT", "")

	s := Load()
	assert.Equal(t, 1, s.FreeTierMaxListings)
	assert.Equal(t, "https://api.paystack.co", s.PaystackBaseURL)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 72, s.TokenTTLH)
}
