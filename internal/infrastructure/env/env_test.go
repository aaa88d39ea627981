package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	t.Setenv("DUET_TEST_STRING", "value")

	require.Equal(t, "value", GetString("DUET_TEST_STRING", "fallback"))
	require.Equal(t, "fallback", GetString("DUET_TEST_STRING_MISSING", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("DUET_TEST_INT", "42")
	t.Setenv("DUET_TEST_INT_BAD", "not a number")

	require.Equal(t, 42, GetInt("DUET_TEST_INT", 7))
	require.Equal(t, 7, GetInt("DUET_TEST_INT_BAD", 7))
	require.Equal(t, 7, GetInt("DUET_TEST_INT_MISSING", 7))
}

func TestGetBool(t *testing.T) {
	t.Setenv("DUET_TEST_BOOL", "false")
	t.Setenv("DUET_TEST_BOOL_BAD", "not a bool")

	require.False(t, GetBool("DUET_TEST_BOOL", true))
	require.True(t, GetBool("DUET_TEST_BOOL_BAD", true))
	require.True(t, GetBool("DUET_TEST_BOOL_MISSING", true))
}
