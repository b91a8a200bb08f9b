// Released under an MIT license. See LICENSE.

// Package history persists interactive session history.
package history

import (
	"io"
	"os"
	"path"
)

// Load reads saved history with read. A missing history file is
// reported as an error; a fresh session has none.
func Load(read func(r io.Reader) (int, error)) error {
	f, err := file(os.Open)
	if err != nil {
		return err
	}

	_, err = read(f)
	if err != nil {
		return err
	}

	return f.Close()
}

// Save writes the session's history with write.
func Save(write func(w io.Writer) (int, error)) error {
	f, err := file(os.Create)
	if err != nil {
		return err
	}

	_, err = write(f)
	if err != nil {
		return err
	}

	return f.Close()
}

func file(op func(string) (*os.File, error)) (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return op(path.Join(home, ".sylva_history"))
}
