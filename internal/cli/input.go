package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// inputPath returns the input argument, defaulting to stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}

// readInput reads the puzzle input from path, or from stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}
