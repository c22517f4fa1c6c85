// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt errors to ErrAborted for consistent handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Terminal is the I/O the prompts run on. Nil fields use the process
// stdin/stdout.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}
