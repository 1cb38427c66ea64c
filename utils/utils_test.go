package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgString(t *testing.T) {
	args, err := ParseArgString("-server=alpha -map=foy_warfare_night", []string{"server", "map"}, false)
	require.NoError(t, err)
	assert.Equal(t, "alpha", args["server"])
	assert.Equal(t, "foy_warfare_night", args["map"])
}

func TestParseArgStringUnnamed(t *testing.T) {
	args, err := ParseArgString("status -server=alpha", []string{"server"}, true)
	require.NoError(t, err)
	assert.Equal(t, "status", args[UnnamedKey])
	assert.Equal(t, "alpha", args["server"])
}

func TestParseArgStringUnnamedAfterFlagIsMalformed(t *testing.T) {
	_, err := ParseArgString("-server=alpha status", []string{"server"}, true)
	var parseErr *MalformedParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseArgStringUnknownFlag(t *testing.T) {
	_, err := ParseArgString("-bogus=1", []string{"server"}, false)
	var flagErr *InvalidFlagError
	require.ErrorAs(t, err, &flagErr)
	assert.Equal(t, "bogus", flagErr.Found)
}

func TestParseArgStringFlagWithoutValue(t *testing.T) {
	_, err := ParseArgString("-server", []string{"server"}, false)
	var parseErr *MalformedParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseArgStringEmptyValueAllowed(t *testing.T) {
	args, err := ParseArgString("-server=", []string{"server"}, false)
	require.NoError(t, err)
	assert.Equal(t, "", args["server"])
}

func TestParseArgStringEmpty(t *testing.T) {
	args, err := ParseArgString("", []string{"server"}, false)
	require.NoError(t, err)
	assert.Empty(t, args)
}
