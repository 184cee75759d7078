package console

import (
	"fmt"

	"github.com/google/shlex"
)

// splitArgs splits a command line the way a POSIX shell would, so department
// names with spaces can be quoted or escaped into one argument.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return args, nil
}
