// Package wizard captures the operator's answers, interactively with huh
// prompts or from the [answers] table of the config file, and publishes each
// one to the configuration store as soon as it is known.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

// ErrCaptureCancelled is returned when the operator aborts the prompts.
var ErrCaptureCancelled = errors.New(messages.WizardCancelled)

// PackageLister lists the packages an operator may choose from.
type PackageLister interface {
	List() ([]string, error)
}

// Capturer runs the interactive prompts.
type Capturer struct {
	UI       UI
	Packages PackageLister
	Logger   *zerolog.Logger
}

// Run prompts for every answer in order and publishes each to s once it
// passes validation. Settings are finalized before the package prompt.
func (c *Capturer) Run(ctx context.Context, s *store.Store) error {
	if s == nil {
		return errors.New(messages.WizardStoreRequired)
	}
	if c.UI == nil {
		return errors.New(messages.WizardUIRequired)
	}
	logger := logging.OrGet(c.Logger, "wizard")

	fields := []struct {
		field    store.Field
		title    string
		validate func(string) (string, error)
	}{
		{store.TargetDirectory, messages.WizardLocationTitle, store.ValidateTargetDirectory},
		{store.Version, messages.WizardVersionTitle, store.ValidateVersion},
		{store.DeploymentName, messages.WizardNameTitle, store.ValidateDeploymentName},
	}
	for _, f := range fields {
		var value string
		if err := c.ask(ctx, f.title, &value, discard(f.validate)); err != nil {
			return err
		}
		normalized, err := f.validate(value)
		if err != nil {
			return err
		}
		if err := s.Set(f.field, normalized); err != nil {
			return fmt.Errorf(messages.WizardPublishFailedFmt, f.field, err)
		}
		logger.Debug().Str("field", string(f.field)).Msg("captured")
	}

	for _, key := range properties.Required {
		value := properties.RequiredDefaults[key]
		validate := func(v string) error {
			_, err := store.ValidateSetting(key, v)
			return err
		}
		if err := c.ask(ctx, fmt.Sprintf(messages.WizardSettingTitleFmt, key), &value, validate); err != nil {
			return err
		}
		if err := s.SetSetting(key, value); err != nil {
			return fmt.Errorf(messages.WizardPublishFailedFmt, key, err)
		}
	}

	if err := c.captureOptional(ctx, s); err != nil {
		return err
	}
	s.FinalizeSettings()

	if err := c.capturePackage(ctx, s); err != nil {
		return err
	}
	if err := c.UI.Note(ctx, messages.WizardCompleteTitle, messages.WizardCompleteBody); err != nil && !errors.Is(err, errPromptBack) {
		return err
	}
	return nil
}

// captureOptional loops over optional settings until the operator enters
// "done" or presses Esc.
func (c *Capturer) captureOptional(ctx context.Context, s *store.Store) error {
	more := false
	if err := c.UI.Confirm(ctx, messages.WizardOptionalConfirm, &more); err != nil {
		if errors.Is(err, errPromptBack) {
			return nil
		}
		return err
	}

	suggestions := properties.Optional()
	for more {
		var key string
		err := c.UI.Input(ctx, messages.WizardOptionalKeyTitle, &key, func(v string) error {
			if isDone(v) {
				return nil
			}
			_, err := store.ValidateSettingKey(v)
			return err
		}, suggestions...)
		if errors.Is(err, errPromptBack) {
			return nil
		}
		if err != nil {
			return err
		}
		if isDone(key) {
			return nil
		}
		key = strings.TrimSpace(key)

		var value string
		if err := c.ask(ctx, fmt.Sprintf(messages.WizardOptionalValueFmt, key), &value, func(v string) error {
			_, err := store.ValidateSetting(key, v)
			return err
		}); err != nil {
			return err
		}
		if err := s.SetSetting(key, value); err != nil {
			return fmt.Errorf(messages.WizardPublishFailedFmt, key, err)
		}
	}
	return nil
}

func (c *Capturer) capturePackage(ctx context.Context, s *store.Store) error {
	if c.Packages == nil {
		return errors.New(messages.WizardNoPackages)
	}
	names, err := c.Packages.List()
	if err != nil {
		return fmt.Errorf(messages.WizardListPackagesFmt, err)
	}
	if len(names) == 0 {
		return errors.New(messages.WizardNoPackages)
	}
	choice := names[0]
	if err := c.UI.Select(ctx, messages.WizardPackageTitle, names, &choice); err != nil {
		return cancelled(err)
	}
	if !slices.Contains(names, choice) {
		return fmt.Errorf(messages.WizardUnknownPackageFmt, choice)
	}
	if err := s.Set(store.PackageName, choice); err != nil {
		return fmt.Errorf(messages.WizardPublishFailedFmt, store.PackageName, err)
	}
	return nil
}

// ask runs an Input prompt. Esc outside the optional loop cancels capture.
func (c *Capturer) ask(ctx context.Context, title string, value *string, validate func(string) error) error {
	return cancelled(c.UI.Input(ctx, title, value, validate))
}

// cancelled maps Esc to ErrCaptureCancelled. The store cannot take an
// answer back, so there is nothing to step back to.
func cancelled(err error) error {
	if errors.Is(err, errPromptBack) {
		return fmt.Errorf("%w (%w)", ErrCaptureCancelled, errPromptBack)
	}
	return err
}

func isDone(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), messages.WizardOptionalDone)
}

func discard(validate func(string) (string, error)) func(string) error {
	return func(v string) error {
		_, err := validate(v)
		return err
	}
}
