package prompt

import (
	"github.com/manifoldco/promptui"
)

// SelectOption represents an item in a selection list.
type SelectOption struct {
	Label       string
	Value       string
	Description string
}

const doneLabel = "Done"

// MultiSelect lets the user toggle options on and off, one selection at a
// time, until "Done" is chosen. promptui has no native multi-select.
// Options listed in preselected start checked. The result keeps option order.
func MultiSelect(label string, options []SelectOption, preselected ...string) ([]string, error) {
	return Terminal{}.MultiSelect(label, options, preselected...)
}

// MultiSelect prompts on the terminal t.
func (t Terminal) MultiSelect(label string, options []SelectOption, preselected ...string) ([]string, error) {
	state := newSelection(options, preselected)

	for {
		items := state.items()
		prompt := promptui.Select{
			Label:  label,
			Items:  items,
			Size:   min(len(items), 15),
			Stdin:  t.Stdin,
			Stdout: t.Stdout,
		}

		i, _, err := prompt.Run()
		if err != nil {
			return nil, wrapError(err)
		}
		if state.choose(i) {
			return state.values(), nil
		}
	}
}

// selection tracks which options are checked.
type selection struct {
	options []SelectOption
	checked map[string]bool
}

func newSelection(options []SelectOption, preselected []string) *selection {
	s := &selection{options: options, checked: make(map[string]bool, len(options))}
	for _, v := range preselected {
		s.checked[v] = true
	}
	return s
}

// items renders the list with check boxes, followed by "Done".
func (s *selection) items() []string {
	items := make([]string, 0, len(s.options)+1)
	for _, opt := range s.options {
		box := "[ ]"
		if s.checked[opt.Value] {
			box = "[x]"
		}
		items = append(items, box+" "+opt.Label)
	}
	return append(items, doneLabel)
}

// choose toggles option i, or reports true when i is "Done".
func (s *selection) choose(i int) bool {
	if i >= len(s.options) {
		return true
	}
	v := s.options[i].Value
	s.checked[v] = !s.checked[v]
	return false
}

func (s *selection) values() []string {
	result := []string{}
	for _, opt := range s.options {
		if s.checked[opt.Value] {
			result = append(result, opt.Value)
		}
	}
	return result
}
