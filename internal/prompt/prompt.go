// Package prompt asks the user interactive questions.
package prompt

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/terminal"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal.
var ErrNotInteractive = errors.New(messages.PromptRequiresTerminal)

// Confirmer asks yes/no questions.
type Confirmer interface {
	Interactive() bool
	Confirm(title string, defaultValue bool) (bool, error)
}

// HuhConfirmer implements Confirmer with a charmbracelet/huh form on stderr.
type HuhConfirmer struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhConfirmer returns a HuhConfirmer using terminal.IsInteractive.
func NewHuhConfirmer() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: terminal.IsInteractive}
}

// Interactive reports whether prompts can be shown.
func (c *HuhConfirmer) Interactive() bool {
	if c.isTerminal == nil {
		return terminal.IsInteractive()
	}
	return c.isTerminal()
}

// Confirm shows title and returns the answer. Aborting the form (Esc or
// Ctrl+C) counts as "no".
func (c *HuhConfirmer) Confirm(title string, defaultValue bool) (bool, error) {
	if !c.Interactive() {
		return false, ErrNotInteractive
	}
	value := defaultValue
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&value),
	)).WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value, nil
}
