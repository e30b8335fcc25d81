// Package config loads msm.toml, the tool's configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/addons"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/installer"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// FileName is the config file looked up in the working directory.
const FileName = "msm.toml"

// xdgConfigFile is the config path relative to the XDG config directories.
const xdgConfigFile = "msm/" + FileName

// ErrConfigValidation wraps every failed validation so callers can tell
// invalid values from unreadable files.
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

var (
	getwd            = os.Getwd
	searchConfigFile = xdg.SearchConfigFile
)

// Config is the decoded msm.toml.
type Config struct {
	Paths          Paths          `toml:"paths"`
	Installer      Installer      `toml:"installer"`
	PackageManager PackageManager `toml:"package_manager"`
	Answers        Answers        `toml:"answers"`

	// Source is the file the config came from; empty when defaults were used.
	Source string `toml:"-"`
}

// Paths locates the registry, start scripts and config sources.
type Paths struct {
	Registry string `toml:"registry" validate:"required"`
	Scripts  string `toml:"scripts"`
	Configs  string `toml:"configs" validate:"required"`
}

// Installer configures the server installer download.
type Installer struct {
	URL     string `toml:"url" validate:"required,url"`
	Java    string `toml:"java" validate:"required"`
	SHA256  string `toml:"sha256" validate:"omitempty,len=64,hexadecimal"`
	Refresh bool   `toml:"refresh"`
}

// PackageManager configures the external add-on package manager.
type PackageManager struct {
	Command          string   `toml:"command" validate:"required"`
	Loader           string   `toml:"loader" validate:"required"`
	ParallelAdds     int      `toml:"parallel_adds" validate:"gte=1,lte=64"`
	SkinBypassAddons []string `toml:"skin_bypass_addons" validate:"dive,required"`
}

// Answers pre-fills the capture for non-interactive runs. Setting values may
// be strings, integers or booleans.
type Answers struct {
	Location string         `toml:"location"`
	Version  string         `toml:"version"`
	Name     string         `toml:"name"`
	Package  string         `toml:"package"`
	Settings map[string]any `toml:"settings"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Registry: "modpacks",
			Scripts:  "scripts",
			Configs:  "configs",
		},
		Installer: Installer{
			URL:  installer.DefaultURL,
			Java: "java",
		},
		PackageManager: PackageManager{
			Command:          addons.DefaultCommand,
			Loader:           addons.DefaultLoader,
			ParallelAdds:     addons.DefaultParallelAdds,
			SkinBypassAddons: append([]string(nil), addons.DefaultSkinBypassAddons...),
		},
	}
}

// Load finds and reads the config. An explicit path must exist; otherwise
// ./msm.toml and then the XDG config directories are searched, falling back
// to defaults. Relative paths are resolved against the config file's
// directory, or the working directory for defaults.
func Load(explicit string) (*Config, error) {
	path, err := locate(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cwd, err := getwd()
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigGetwdFailedFmt, err)
		}
		cfg := Default()
		if err := cfg.resolvePaths(cwd); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	cfg.Source = abs
	if err := cfg.resolvePaths(filepath.Dir(abs)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func locate(explicit string) (string, error) {
	if explicit != "" {
		expanded, err := homedir.Expand(explicit)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigReadFailedFmt, explicit, err)
		}
		return expanded, nil
	}
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigGetwdFailedFmt, err)
	}
	local := filepath.Join(cwd, FileName)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf(messages.ConfigSearchFailedFmt, err)
	}
	// SearchConfigFile reports a miss as an error; a miss means defaults.
	if found, err := searchConfigFile(xdgConfigFile); err == nil {
		return found, nil
	}
	return "", nil
}

// Parse decodes data over the defaults, rejecting unknown keys, and
// validates the result. source names the data in errors.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints. Every failure is reported, joined.
func (c *Config) Validate(source string) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		problems = append(problems, fmt.Sprintf(messages.ConfigFieldInvalidFmt, field, fe.Tag()))
	}
	return fmt.Errorf("%w: "+messages.ConfigValidateFailedFmt, ErrConfigValidation, source, strings.Join(problems, "; "))
}

func (c *Config) resolvePaths(base string) error {
	for _, p := range []*string{&c.Paths.Registry, &c.Paths.Scripts, &c.Paths.Configs} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf(messages.ConfigInvalidFmt, *p, err)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(base, expanded)
		}
		*p = filepath.Clean(expanded)
	}
	return nil
}
