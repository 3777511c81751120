/*
 * Copyright © 2019 One Concern
 *
 */

package syncer

import (
	"strings"

	"github.com/oneconcern/zbak/pkg/errors"
)

// Template placeholder tokens. Anything else starting with "$" or "@" is a
// configuration error; plain literals pass through unchanged.
const (
	tokenBinary      = "$binary"
	tokenOptions     = "@options"
	tokenSource      = "$source"
	tokenDestination = "$destination"
)

// Expand resolves a command template into the concrete argument vector.
//
// Token order is preserved. "@options" splices all options in place, in the
// order given (syncer-level options first, then per-source extras, joined by
// the caller).
func Expand(template []string, binary string, options []string, source, destination string) ([]string, error) {
	argv := make([]string, 0, len(template)+len(options))
	for _, token := range template {
		switch token {
		case tokenBinary:
			argv = append(argv, binary)
		case tokenOptions:
			argv = append(argv, options...)
		case tokenSource:
			argv = append(argv, source)
		case tokenDestination:
			argv = append(argv, destination)
		default:
			if strings.HasPrefix(token, "$") || strings.HasPrefix(token, "@") {
				return nil, errors.ErrBadToken.WrapMessage("%q", token)
			}
			argv = append(argv, token)
		}
	}
	return argv, nil
}
