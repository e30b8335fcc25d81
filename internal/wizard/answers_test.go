package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/config"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

func validAnswers(dir string) config.Answers {
	return config.Answers{
		Location: dir,
		Version:  "1.20.4",
		Name:     "smp",
		Package:  "survival",
		Settings: map[string]any{
			"pvp":         false,
			"motd":        "Hello",
			"max-players": int64(10),
			"server-port": int64(25565),
			"online-mode": true,
			"level-seed":  "abc",
		},
	}
}

func TestApply_PublishesInOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := store.New()

	require.NoError(t, Apply(validAnswers(dir), s, staticPackages{"survival"}))

	location, _ := s.Get(store.TargetDirectory)
	assert.Equal(t, dir, location)
	pkg, _ := s.Get(store.PackageName)
	assert.Equal(t, "survival", pkg)
	assert.Equal(t, []properties.Entry{
		{Key: "motd", Value: "Hello"},
		{Key: "max-players", Value: "10"},
		{Key: "server-port", Value: "25565"},
		{Key: "online-mode", Value: "true"},
		{Key: "level-seed", Value: "abc"},
		{Key: "pvp", Value: "false"},
	}, s.Settings())
	assert.True(t, s.SettingsFinalized())
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(a *config.Answers)
		pkgs    PackageLister
		wantErr string
	}{
		{name: "missing location", mutate: func(a *config.Answers) { a.Location = "" }, wantErr: "target directory is required"},
		{name: "bad version", mutate: func(a *config.Answers) { a.Version = "latest" }, wantErr: "latest"},
		{name: "missing required setting", mutate: func(a *config.Answers) { delete(a.Settings, "online-mode") }, wantErr: "settings.online-mode"},
		{name: "unknown setting", mutate: func(a *config.Answers) { a.Settings["colour"] = "blue" }, wantErr: "colour"},
		{name: "bad port", mutate: func(a *config.Answers) { a.Settings["server-port"] = int64(70000) }, wantErr: "70000"},
		{name: "unknown package", mutate: func(a *config.Answers) {}, pkgs: staticPackages{"creative"}, wantErr: `unknown package "survival"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := validAnswers(t.TempDir())
			tt.mutate(&a)
			s := store.New()
			err := Apply(a, s, tt.pkgs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			_, published := s.Get(store.TargetDirectory)
			assert.False(t, published, "nothing is published on invalid answers")
		})
	}
}

func TestFormatAnswer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "x", formatAnswer("x"))
	assert.Equal(t, "true", formatAnswer(true))
	assert.Equal(t, "42", formatAnswer(int64(42)))
	assert.Equal(t, "0.5", formatAnswer(0.5))
	assert.Equal(t, "7", formatAnswer(7))
}
