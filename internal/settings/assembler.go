// Package settings assembles server.properties from the fixed tuning block
// and the operator settings held by the configuration store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rs/zerolog"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/fsutil"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

const filePerm = 0o644

// Assembler writes the settings file for a deployment.
type Assembler struct {
	store  *store.Store
	logger zerolog.Logger
}

// New returns an Assembler reading operator settings from s.
func New(s *store.Store, logger *zerolog.Logger) *Assembler {
	return &Assembler{store: s, logger: logging.OrGet(logger, "settings")}
}

// WriteInitial writes the tuning block into dir immediately, then appends
// operator settings as they arrive: required keys in canonical order, then
// optional keys. Optional keys set early are held back until the required
// block is complete. Each key is written once. It returns after all required
// keys are on disk.
func (a *Assembler) WriteInitial(ctx context.Context, dir string) error {
	if a.store == nil {
		return errors.New(messages.SettingsStoreRequired)
	}
	path := filepath.Join(dir, properties.FileName)
	if err := fsutil.WriteFileAtomic(path, []byte(properties.Format(properties.Tuning)), filePerm); err != nil {
		return fmt.Errorf(messages.SettingsWriteFileFmt, path, err)
	}

	written := make(map[string]bool, len(properties.Tuning)+len(properties.Required))
	for _, e := range properties.Tuning {
		written[e.Key] = true
	}
	nextRequired := 0

	for {
		// Take the channel before the snapshot so no change is missed.
		changed := a.store.SettingsChanged()
		current := a.store.Settings()

		var batch []properties.Entry
		for nextRequired < len(properties.Required) {
			key := properties.Required[nextRequired]
			value, ok := properties.Lookup(current, key)
			if !ok {
				break
			}
			batch = append(batch, properties.Entry{Key: key, Value: value})
			written[key] = true
			nextRequired++
		}
		complete := nextRequired == len(properties.Required)
		if complete {
			for _, e := range current {
				if written[e.Key] {
					continue
				}
				batch = append(batch, e)
				written[e.Key] = true
			}
		}

		if len(batch) > 0 {
			if err := fsutil.AppendFile(path, []byte(properties.Format(batch)), filePerm); err != nil {
				return fmt.Errorf(messages.SettingsAppendFileFmt, path, err)
			}
			a.logger.Debug().Int("keys", len(batch)).Msg("appended settings")
		}
		if complete {
			return nil
		}
		if a.store.SettingsFinalized() {
			return fmt.Errorf(messages.SettingsMissingRequiredFmt, properties.Required[nextRequired])
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return fmt.Errorf(messages.SettingsWaitRequiredFailedFmt, ctx.Err())
		}
	}
}

// Merge waits for settings capture to finish, then patches the settings file
// in dir with every operator setting so each key appears once with its last
// assigned value.
func (a *Assembler) Merge(ctx context.Context, dir string) error {
	if a.store == nil {
		return errors.New(messages.SettingsStoreRequired)
	}
	final, err := a.store.AwaitSettingsFinal(ctx)
	if err != nil {
		return fmt.Errorf(messages.SettingsWaitFinalFailedFmt, err)
	}

	path := filepath.Join(dir, properties.FileName)
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(messages.SettingsReadFileFmt, path, err)
	}
	before := string(data)
	if _, err := properties.Parse(before); err != nil {
		return fmt.Errorf(messages.SettingsParseFileFmt, path, err)
	}

	after := properties.Patch(before, final)
	if after == before {
		return nil
	}
	if e := a.logger.Debug(); e.Enabled() {
		e.Str("diff", udiff.Unified(path, path, before, after)).Msg("merged settings")
	}
	if err := fsutil.WriteFileAtomic(path, []byte(after), filePerm); err != nil {
		return fmt.Errorf(messages.SettingsWriteFileFmt, path, err)
	}
	return nil
}
