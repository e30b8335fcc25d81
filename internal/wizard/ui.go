package wizard

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// UI is the set of prompts the capture needs. Every prompt returns ctx.Err()
// once ctx is done, even while it waits on the operator.
type UI interface {
	// Input asks for a line of text. validate runs on every edit and blocks
	// submission while it returns an error; nil accepts anything.
	// suggestions are offered for completion.
	Input(ctx context.Context, title string, value *string, validate func(string) error, suggestions ...string) error
	Select(ctx context.Context, title string, options []string, current *string) error
	Confirm(ctx context.Context, title string, value *bool) error
	Note(ctx context.Context, title string, body string) error
}

var (
	// errPromptBack reports Esc on a prompt.
	errPromptBack = errors.New(messages.WizardBack)
	// errRequiresTerminal is returned when a prompt runs without a terminal.
	errRequiresTerminal = errors.New(messages.WizardRequiresTerminal)
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// HuhUI implements UI with charmbracelet/huh forms rendered on stderr.
type HuhUI struct {
	isTerminal func() bool
	ctrlCAbort bool // set by the key filter while a form runs
}

var runFormFunc = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }

// NewHuhUI returns a HuhUI that checks IsInteractive before every prompt.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: IsInteractive}
}

func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = IsInteractive
	}
	if checker() {
		return nil
	}
	return errRequiresTerminal
}

// promptKeyMap makes Esc and Ctrl+C abort the form. The field Prev and Next
// bindings only carry the help hints; the form handles both keys first.
func promptKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	escBack := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	km.Select.Prev = escBack
	km.Confirm.Prev = escBack
	km.Input.Prev = escBack
	km.Note.Prev = escBack

	ctrlCExit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit"))
	km.Select.Next = ctrlCExit
	km.Confirm.Next = ctrlCExit
	km.Input.Next = ctrlCExit
	km.Note.Next = ctrlCExit

	// Filter mode would swallow Esc.
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// hintField keeps the Esc and Ctrl+C hints visible. huh disables Prev on
// the first field and Next on the last, and every prompt has one field.
type hintField struct {
	huh.Field
	km *huh.KeyMap
}

func newHintField(field huh.Field) huh.Field {
	return &hintField{Field: field, km: promptKeyMap()}
}

// Update keeps the wrapper in the group's field list.
func (f *hintField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := f.Field.Update(msg)
	if field, ok := model.(huh.Field); ok {
		f.Field = field
	}
	return f, cmd
}

// WithPosition re-applies the key map after huh disables Prev and Next.
func (f *hintField) WithPosition(p huh.FieldPosition) huh.Field {
	f.Field.WithPosition(p)
	f.WithKeyMap(f.km)
	return f
}

// formFilter records Ctrl+C presses and turns interrupts into a clean quit
// so the renderer clears the form. Esc aborts without setting the flag.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			ui.ctrlCAbort = true
		}
		if _, ok := msg.(tea.InterruptMsg); ok {
			return tea.QuitMsg{}
		}
		return msg
	}
}

// runForm returns errPromptBack for Esc, ErrCaptureCancelled for Ctrl+C and
// ctx.Err() when ctx ends the form. huh reports a killed program as an
// abort, so ctx is checked first.
func (ui *HuhUI) runForm(ctx context.Context, form *huh.Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ui.ensureInteractive(); err != nil {
		return err
	}

	ui.ctrlCAbort = false
	form.WithKeyMap(promptKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithReportFocus(),
		tea.WithFilter(ui.formFilter()),
	)

	err := runFormFunc(ctx, form)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, huh.ErrUserAborted) {
		if ui.ctrlCAbort {
			return ErrCaptureCancelled
		}
		return errPromptBack
	}
	return err
}

// Input renders a validated text prompt.
func (ui *HuhUI) Input(ctx context.Context, title string, value *string, validate func(string) error, suggestions ...string) error {
	field := huh.NewInput().Title(title).Value(value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if len(suggestions) > 0 {
		field = field.Suggestions(suggestions)
	}
	return ui.runForm(ctx, huh.NewForm(huh.NewGroup(newHintField(field))))
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(ctx context.Context, title string, options []string, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return ui.runForm(ctx, huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(current)),
		),
	))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(ctx context.Context, title string, value *bool) error {
	return ui.runForm(ctx, huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewConfirm().
				Title(title).
				Value(value)),
		),
	))
}

// Note renders an informational screen.
func (ui *HuhUI) Note(ctx context.Context, title string, body string) error {
	return ui.runForm(ctx, huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewNote().
				Title(title).
				Description(body)),
		),
	))
}
