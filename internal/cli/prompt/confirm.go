package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user for yes/no confirmation.
// Returns true if the user confirms, false otherwise.
// Returns ErrAborted if the user presses Ctrl+C.
func Confirm(label string, defaultYes bool) (bool, error) {
	return Terminal{}.Confirm(label, defaultYes)
}

// Confirm prompts on the terminal t.
func (t Terminal) Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}

	result, err := prompt.Run()
	return parseConfirm(result, err, defaultYes)
}

// parseConfirm maps a confirm prompt's result to a decision. promptui
// reports every answer other than "y" as ErrAbort, so an empty answer is
// told apart by the raw result.
func parseConfirm(result string, err error, defaultYes bool) (bool, error) {
	answer := strings.ToLower(strings.TrimSpace(result))
	if err != nil {
		switch {
		case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return false, ErrAborted
		case errors.Is(err, promptui.ErrAbort):
			if answer == "" {
				return defaultYes, nil
			}
			return false, nil
		default:
			return false, err
		}
	}

	switch answer {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmWithForce returns true immediately if force is true,
// otherwise prompts for confirmation defaulting to no.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}
