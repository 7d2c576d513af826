package client

import (
	"fmt"
	"os"
	"path/filepath"
)

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

// ResolveFile validates that the single positional argument names a
// readable regular file and returns its cleaned path.
func ResolveFile(args []string) (string, error) {
	if len(args) == 0 {
		return "", &ValidationError{Arg: "<file>", Cause: "no file provided"}
	}
	if len(args) > 1 {
		return "", &ValidationError{Arg: args[1], Cause: "only one file per upload"}
	}

	p := filepath.Clean(args[0])
	info, err := os.Stat(p)
	if err != nil {
		return "", &ValidationError{Arg: args[0], Cause: "not found or not accessible"}
	}
	if info.IsDir() {
		return "", &ValidationError{Arg: args[0], Cause: "is a directory, not a file"}
	}

	return p, nil
}
