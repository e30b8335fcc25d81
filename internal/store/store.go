// Package store holds the operator's answers while the rest of the run waits on them.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
)

// Field names a write-once value in the store.
type Field string

// Fields captured from the operator.
const (
	TargetDirectory Field = "target directory"
	Version         Field = "version"
	DeploymentName  Field = "deployment name"
	PackageName     Field = "package name"
)

// Fields lists every write-once field in capture order.
var Fields = []Field{TargetDirectory, Version, DeploymentName, PackageName}

// ErrSettingsFinal is returned when a setting is recorded after FinalizeSettings.
var ErrSettingsFinal = errors.New(messages.StoreSettingsFinal)

// AlreadySetError reports a second write to a write-once field.
type AlreadySetError struct {
	Field Field
	Value string
}

func (e *AlreadySetError) Error() string {
	return fmt.Sprintf(messages.StoreAlreadySetFmt, e.Field, e.Value)
}

// Store is the shared record of operator answers. Every field starts unset
// and is assigned at most once; settings accumulate until finalized.
type Store struct {
	mu     sync.Mutex
	values map[Field]string
	ready  map[Field]chan struct{}

	settings     []properties.Entry
	settingIndex map[string]int
	changed      chan struct{}
	final        chan struct{}
	finalized    bool
}

// New returns an empty store.
func New() *Store {
	s := &Store{
		values:       make(map[Field]string),
		ready:        make(map[Field]chan struct{}),
		settingIndex: make(map[string]int),
		changed:      make(chan struct{}),
		final:        make(chan struct{}),
	}
	for _, f := range Fields {
		s.ready[f] = make(chan struct{})
	}
	return s
}

// Set assigns field. A second assignment fails with *AlreadySetError and leaves the first value in place.
func (s *Store) Set(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.ready[field]
	if !ok {
		return fmt.Errorf(messages.StoreUnknownFieldFmt, field)
	}
	if existing, set := s.values[field]; set {
		return &AlreadySetError{Field: field, Value: existing}
	}
	s.values[field] = value
	close(ch)
	return nil
}

// Get returns the value of field if it has been set.
func (s *Store) Get(field Field) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[field]
	return v, ok
}

// AwaitSet blocks until field is set or ctx is done.
func (s *Store) AwaitSet(ctx context.Context, field Field) (string, error) {
	s.mu.Lock()
	ch, ok := s.ready[field]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf(messages.StoreUnknownFieldFmt, field)
	}
	select {
	case <-ch:
		v, _ := s.Get(field)
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// SetSetting validates and records a server setting. Reassigning a key keeps
// its original position and replaces its value.
func (s *Store) SetSetting(key string, value string) error {
	entry, err := ValidateSetting(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return ErrSettingsFinal
	}
	if idx, ok := s.settingIndex[entry.Key]; ok {
		s.settings[idx].Value = entry.Value
	} else {
		s.settingIndex[entry.Key] = len(s.settings)
		s.settings = append(s.settings, entry)
	}
	s.notifyLocked()
	return nil
}

// Settings returns a snapshot of the recorded settings in first-assignment order.
func (s *Store) Settings() []properties.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]properties.Entry, len(s.settings))
	copy(out, s.settings)
	return out
}

// SettingsChanged returns a channel that is closed on the next settings change
// or on finalization. Read it before taking a snapshot so no change is missed.
func (s *Store) SettingsChanged() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// SettingsHasAllRequired reports whether every required setting has been recorded.
func (s *Store) SettingsHasAllRequired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasRequiredLocked()
}

// AwaitRequiredSettings blocks until every required setting is recorded.
func (s *Store) AwaitRequiredSettings(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.hasRequiredLocked() {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// FinalizeSettings marks the settings as complete. It is safe to call more than once.
func (s *Store) FinalizeSettings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return
	}
	s.finalized = true
	close(s.final)
	s.notifyLocked()
}

// SettingsFinalized reports whether FinalizeSettings has been called.
func (s *Store) SettingsFinalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// AwaitSettingsFinal blocks until FinalizeSettings has been called and returns the final settings.
func (s *Store) AwaitSettingsFinal(ctx context.Context) ([]properties.Entry, error) {
	select {
	case <-s.final:
		return s.Settings(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) hasRequiredLocked() bool {
	for _, key := range properties.Required {
		if _, ok := s.settingIndex[key]; !ok {
			return false
		}
	}
	return true
}

func (s *Store) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
