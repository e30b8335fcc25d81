package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
)

func TestSet_WriteOnce(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Set(Version, "1.20.4"))

	err := s.Set(Version, "1.19")
	var already *AlreadySetError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, Version, already.Field)
	assert.Equal(t, "1.20.4", already.Value)

	v, ok := s.Get(Version)
	assert.True(t, ok)
	assert.Equal(t, "1.20.4", v)
}

func TestSet_UnknownField(t *testing.T) {
	t.Parallel()
	s := New()
	assert.Error(t, s.Set(Field("colour"), "blue"))
	_, err := s.AwaitSet(context.Background(), Field("colour"))
	assert.Error(t, err)
}

func TestGet_Unset(t *testing.T) {
	t.Parallel()
	s := New()
	_, ok := s.Get(DeploymentName)
	assert.False(t, ok)
}

func TestAwaitSet_ManyWaiters(t *testing.T) {
	t.Parallel()
	s := New()
	const waiters = 16

	var wg sync.WaitGroup
	results := make(chan string, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.AwaitSet(context.Background(), DeploymentName)
			if err != nil {
				results <- "error: " + err.Error()
				return
			}
			results <- v
		}()
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Set(DeploymentName, "survival"))
	wg.Wait()
	close(results)

	count := 0
	for v := range results {
		assert.Equal(t, "survival", v)
		count++
	}
	assert.Equal(t, waiters, count)
}

func TestAwaitSet_AlreadySet(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Set(PackageName, "base"))
	v, err := s.AwaitSet(context.Background(), PackageName)
	require.NoError(t, err)
	assert.Equal(t, "base", v)
}

func TestAwaitSet_ContextCancelled(t *testing.T) {
	t.Parallel()
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.AwaitSet(ctx, TargetDirectory)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetSetting_RejectsUnknownKey(t *testing.T) {
	t.Parallel()
	s := New()
	err := s.SetSetting("not-a-setting", "1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, s.Settings())
}

func TestSetSetting_ReassignKeepsPosition(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.SetSetting("motd", "first"))
	require.NoError(t, s.SetSetting("pvp", "true"))
	require.NoError(t, s.SetSetting("motd", "second"))

	assert.Equal(t, []properties.Entry{
		{Key: "motd", Value: "second"},
		{Key: "pvp", Value: "true"},
	}, s.Settings())
}

func TestSettingsHasAllRequired(t *testing.T) {
	t.Parallel()
	s := New()
	for i, key := range properties.Required {
		assert.False(t, s.SettingsHasAllRequired(), "before %s", key)
		require.NoError(t, s.SetSetting(key, properties.RequiredDefaults[key]), "setting %d", i)
	}
	assert.True(t, s.SettingsHasAllRequired())
}

func TestAwaitRequiredSettings(t *testing.T) {
	t.Parallel()
	s := New()
	done := make(chan error, 1)
	go func() { done <- s.AwaitRequiredSettings(context.Background()) }()

	require.NoError(t, s.SetSetting("motd", "hi"))
	require.NoError(t, s.SetSetting("max-players", "5"))
	select {
	case err := <-done:
		t.Fatalf("returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, s.SetSetting("server-port", "25565"))
	require.NoError(t, s.SetSetting("online-mode", "false"))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AwaitRequiredSettings did not return")
	}
}

func TestSettingsChanged_ClosedOnChange(t *testing.T) {
	t.Parallel()
	s := New()
	ch := s.SettingsChanged()
	require.NoError(t, s.SetSetting("pvp", "false"))
	select {
	case <-ch:
	default:
		t.Fatal("change channel not closed")
	}
}

func TestFinalizeSettings(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.SetSetting("motd", "hi"))

	done := make(chan []properties.Entry, 1)
	go func() {
		entries, err := s.AwaitSettingsFinal(context.Background())
		if err == nil {
			done <- entries
		}
		close(done)
	}()

	assert.False(t, s.SettingsFinalized())
	s.FinalizeSettings()
	s.FinalizeSettings()
	assert.True(t, s.SettingsFinalized())

	entries, ok := <-done
	require.True(t, ok)
	assert.Equal(t, []properties.Entry{{Key: "motd", Value: "hi"}}, entries)
	assert.True(t, errors.Is(s.SetSetting("pvp", "true"), ErrSettingsFinal))
}

func TestAwaitSettingsFinal_ContextCancelled(t *testing.T) {
	t.Parallel()
	s := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := s.AwaitSettingsFinal(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
