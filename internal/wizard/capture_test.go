package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

// step scripts one prompt. For Input, the first attempt that passes
// validation is submitted and earlier ones are recorded as rejected; no
// attempts submits the prefilled value. A blocking step waits for the
// prompt's context to end, like an operator who never answers.
type step struct {
	inputs  []string
	confirm bool
	choice  string
	err     error
	block   bool
}

type fakeUI struct {
	t           *testing.T
	steps       []step
	titles      []string
	rejected    []string
	suggestions map[string][]string
	onPrompt    func(title string)
}

func (f *fakeUI) next(ctx context.Context, title string) (step, error) {
	f.t.Helper()
	if err := ctx.Err(); err != nil {
		return step{}, err
	}
	f.titles = append(f.titles, title)
	if f.onPrompt != nil {
		f.onPrompt(title)
	}
	if len(f.steps) == 0 {
		f.t.Fatalf("unexpected prompt %q", title)
	}
	st := f.steps[0]
	f.steps = f.steps[1:]
	if st.block {
		<-ctx.Done()
		return st, ctx.Err()
	}
	return st, st.err
}

func (f *fakeUI) Input(ctx context.Context, title string, value *string, validate func(string) error, suggestions ...string) error {
	st, err := f.next(ctx, title)
	if err != nil {
		return err
	}
	if len(suggestions) > 0 {
		if f.suggestions == nil {
			f.suggestions = map[string][]string{}
		}
		f.suggestions[title] = suggestions
	}
	attempts := st.inputs
	if len(attempts) == 0 {
		attempts = []string{*value}
	}
	for _, in := range attempts {
		if validate == nil || validate(in) == nil {
			*value = in
			return nil
		}
		f.rejected = append(f.rejected, in)
	}
	return fmt.Errorf("no valid input scripted for %q", title)
}

func (f *fakeUI) Select(ctx context.Context, title string, options []string, current *string) error {
	st, err := f.next(ctx, title)
	if err != nil {
		return err
	}
	if st.choice != "" {
		*current = st.choice
	}
	return nil
}

func (f *fakeUI) Confirm(ctx context.Context, title string, value *bool) error {
	st, err := f.next(ctx, title)
	if err != nil {
		return err
	}
	*value = st.confirm
	return nil
}

func (f *fakeUI) Note(ctx context.Context, title string, body string) error {
	_, err := f.next(ctx, title)
	return err
}

type staticPackages []string

func (p staticPackages) List() ([]string, error) { return p, nil }

type failingPackages struct{}

func (failingPackages) List() ([]string, error) { return nil, errors.New("registry unreadable") }

func newCapturer(ui UI, pkgs PackageLister) *Capturer {
	logger := zerolog.Nop()
	return &Capturer{UI: ui, Packages: pkgs, Logger: &logger}
}

func baseSteps(dir string) []step {
	return []step{
		{inputs: []string{dir}},
		{inputs: []string{"1.20.4"}},
		{inputs: []string{"smp"}},
		{}, {}, {}, {},
	}
}

func TestCapture_FullFlow(t *testing.T) {
	dir := t.TempDir()
	ui := &fakeUI{t: t, steps: []step{
		{inputs: []string{"/definitely/not/here", dir}},
		{inputs: []string{"2.0", "1.20.4"}},
		{inputs: []string{"this-name-is-far-too-long", "smp"}},
		{inputs: []string{"Welcome"}},
		{inputs: []string{"zero", "0", "12"}},
		{},
		{inputs: []string{"maybe", "false"}},
		{confirm: true},
		{inputs: []string{"bogus-key", "pvp"}},
		{inputs: []string{"false"}},
		{inputs: []string{"DONE"}},
		{choice: "survival"},
		{},
	}}
	s := store.New()

	require.NoError(t, newCapturer(ui, staticPackages{"creative", "survival"}).Run(context.Background(), s))

	for field, want := range map[store.Field]string{
		store.TargetDirectory: dir,
		store.Version:         "1.20.4",
		store.DeploymentName:  "smp",
		store.PackageName:     "survival",
	} {
		got, ok := s.Get(field)
		require.True(t, ok, field)
		assert.Equal(t, want, got, field)
	}
	assert.Equal(t, []properties.Entry{
		{Key: "motd", Value: "Welcome"},
		{Key: "max-players", Value: "12"},
		{Key: "server-port", Value: "25565"},
		{Key: "online-mode", Value: "false"},
		{Key: "pvp", Value: "false"},
	}, s.Settings())
	assert.True(t, s.SettingsFinalized())
	assert.Equal(t, []string{"/definitely/not/here", "2.0", "this-name-is-far-too-long", "zero", "0", "maybe", "bogus-key"}, ui.rejected)
	assert.Equal(t, messages.WizardCompleteTitle, ui.titles[len(ui.titles)-1])
	assert.Equal(t, properties.Optional(), ui.suggestions[messages.WizardOptionalKeyTitle])
}

func TestCapture_PublishesEachAnswerImmediately(t *testing.T) {
	dir := t.TempDir()
	s := store.New()
	ui := &fakeUI{t: t, steps: append(baseSteps(dir), step{confirm: false}, step{}, step{})}
	ui.onPrompt = func(title string) {
		switch title {
		case messages.WizardVersionTitle:
			_, ok := s.Get(store.TargetDirectory)
			assert.True(t, ok, "location published before version prompt")
		case fmt.Sprintf(messages.WizardSettingTitleFmt, "max-players"):
			assert.Len(t, s.Settings(), 1, "motd published before the next setting prompt")
		case messages.WizardPackageTitle:
			assert.True(t, s.SettingsFinalized(), "settings final before package prompt")
		}
	}

	require.NoError(t, newCapturer(ui, staticPackages{"only"}).Run(context.Background(), s))
	pkg, _ := s.Get(store.PackageName)
	assert.Equal(t, "only", pkg, "first package is preselected")
}

func TestCapture_CtrlCCancels(t *testing.T) {
	dir := t.TempDir()
	ui := &fakeUI{t: t, steps: []step{
		{inputs: []string{dir}},
		{inputs: []string{"1.20.4"}},
		{err: ErrCaptureCancelled},
	}}
	s := store.New()

	err := newCapturer(ui, staticPackages{"p"}).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrCaptureCancelled)
	_, ok := s.Get(store.Version)
	assert.True(t, ok, "answers before the abort stay published")
	_, ok = s.Get(store.DeploymentName)
	assert.False(t, ok)
}

func TestCapture_EscOnRequiredPromptCancels(t *testing.T) {
	ui := &fakeUI{t: t, steps: []step{{err: errPromptBack}}}
	err := newCapturer(ui, staticPackages{"p"}).Run(context.Background(), store.New())
	assert.ErrorIs(t, err, ErrCaptureCancelled)
}

func TestCapture_EscEndsOptionalSettings(t *testing.T) {
	dir := t.TempDir()
	steps := append(baseSteps(dir),
		step{confirm: true},
		step{inputs: []string{"gamemode"}},
		step{inputs: []string{"creative"}},
		step{err: errPromptBack},
		step{choice: "p"},
		step{},
	)
	s := store.New()
	require.NoError(t, newCapturer(&fakeUI{t: t, steps: steps}, staticPackages{"p"}).Run(context.Background(), s))
	value, ok := properties.Lookup(s.Settings(), "gamemode")
	require.True(t, ok)
	assert.Equal(t, "creative", value)
}

func TestCapture_NoPackages(t *testing.T) {
	dir := t.TempDir()
	steps := append(baseSteps(dir), step{confirm: false})
	s := store.New()
	err := newCapturer(&fakeUI{t: t, steps: steps}, staticPackages{}).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), messages.WizardNoPackages)
	assert.True(t, s.SettingsFinalized())
}

func TestCapture_PackageListError(t *testing.T) {
	dir := t.TempDir()
	steps := append(baseSteps(dir), step{confirm: false})
	err := newCapturer(&fakeUI{t: t, steps: steps}, failingPackages{}).Run(context.Background(), store.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry unreadable")
}

func TestCapture_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newCapturer(&fakeUI{t: t}, staticPackages{"p"}).Run(ctx, store.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCapture_BlockedPromptStopsWhenContextEnds(t *testing.T) {
	dir := t.TempDir()
	ui := &fakeUI{t: t, steps: []step{
		{inputs: []string{dir}},
		{block: true},
	}}
	s := store.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newCapturer(ui, staticPackages{"p"}).Run(ctx, s) }()

	_, err := s.AwaitSet(context.Background(), store.TargetDirectory)
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrCaptureCancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("capture kept waiting on the version prompt after cancellation")
	}
	_, ok := s.Get(store.Version)
	assert.False(t, ok)
}

func TestCapture_RequiresCollaborators(t *testing.T) {
	assert.Error(t, (&Capturer{}).Run(context.Background(), store.New()))
	assert.Error(t, newCapturer(&fakeUI{t: t}, nil).Run(context.Background(), nil))
}
