// Package utils holds the flag-style argument parser shared by the text
// commands.
package utils

import (
	"fmt"
	"slices"
	"strings"
)

// UnnamedKey is the map key a bare leading argument is stored under.
const UnnamedKey = "_unnamed"

// MalformedParseError indicates a general failure to parse an argument
// string.
type MalformedParseError struct{}

func (e *MalformedParseError) Error() string {
	return "PARSE ERROR: malformed argument string"
}

// InvalidFlagError indicates a flag the command does not accept.
type InvalidFlagError struct{ Found string }

func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("PARSE ERROR: unrecognized flag \"%s\" provided", e.Found)
}

// ParseArgString parses a command argument string into a map, e.g.
// "-server=alpha -map=foy" becomes {"server": "alpha", "map": "foy"}.
// When allowUnnamed is set, a bare token before any flag is stored
// under UnnamedKey.
func ParseArgString(argString string, argFlags []string, allowUnnamed bool) (map[string]string, error) {
	args := make(map[string]string, len(argFlags))

	acceptingUnnamed := allowUnnamed
	for _, token := range strings.Fields(argString) {
		if strings.HasPrefix(token, "-") {
			acceptingUnnamed = false

			flag, value, ok := strings.Cut(token[1:], "=")
			if !ok || flag == "" {
				return nil, &MalformedParseError{}
			}
			if !slices.Contains(argFlags, flag) {
				return nil, &InvalidFlagError{Found: flag}
			}
			args[flag] = value
			continue
		}
		if acceptingUnnamed {
			args[UnnamedKey] = token
			continue
		}
		return nil, &MalformedParseError{}
	}
	return args, nil
}
