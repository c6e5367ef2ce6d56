package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader binds a --file/-f flag and decodes a T from the named file, or
// from Stdin when the flag is unset.
type FileReader[T any] struct {
	// Stdin defaults to os.Stdin.
	Stdin io.Reader

	path string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.path,
	}
}

// Provided reports whether input was supplied through the flag or a pipe.
func (fr *FileReader[T]) Provided() bool {
	if fr.path != "" {
		return true
	}
	if fr.Stdin != nil {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func (fr *FileReader[T]) Read() (T, error) {
	if fr.path != "" {
		f, err := os.Open(fr.path)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if fr.Stdin != nil {
		return Decode[T](fr.Stdin)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		var zero T
		return zero, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	}
	return Decode[T](os.Stdin)
}
