package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PD_TEST_STR", "value")
	t.Setenv("PD_TEST_INT", "42")
	t.Setenv("PD_TEST_BAD_INT", "forty-two")
	t.Setenv("PD_TEST_DUR", "250ms")

	assert.Equal(t, "value", getEnv("PD_TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("PD_TEST_UNSET", "default"))
	assert.Equal(t, 42, getEnvInt("PD_TEST_INT", 7))
	assert.Equal(t, 7, getEnvInt("PD_TEST_BAD_INT", 7))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("PD_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("PD_TEST_UNSET", time.Second))

	v, err := requireEnv("PD_TEST_STR")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	_, err = requireEnv("PD_TEST_UNSET")
	assert.ErrorContains(t, err, "PD_TEST_UNSET")
}
