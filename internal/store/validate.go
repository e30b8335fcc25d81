package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
)

// MaxDeploymentNameLength bounds the deployment name, which doubles as the
// package-manager profile name and the server directory name.
const MaxDeploymentNameLength = 20

// StagingDirName is the directory the server is assembled in before it is
// renamed to the deployment name, so no deployment may use it.
const StagingDirName = "server"

// ErrInvalidInput is wrapped by every InvalidInputError.
var ErrInvalidInput = errors.New(messages.StoreInvalidInput)

var versionPattern = regexp.MustCompile(`^1\.[1-9]\d*(\.[1-9]\d*)?$`)

// InvalidInputError reports a malformed operator-supplied value.
// Capture recovers from it by asking again.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf(messages.StoreInvalidInputFmt, e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field Field, value string, reason string) error {
	return &InvalidInputError{Field: string(field), Value: value, Reason: reason}
}

// ValidateTargetDirectory expands ~, makes raw absolute and checks that it names an existing directory.
func ValidateTargetDirectory(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid(TargetDirectory, raw, messages.StoreValueRequired)
	}
	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", invalid(TargetDirectory, raw, fmt.Sprintf(messages.StoreExpandHomeFailedFmt, err))
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", invalid(TargetDirectory, raw, fmt.Sprintf(messages.StoreResolvePathFailedFmt, err))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", invalid(TargetDirectory, raw, messages.StoreDirectoryMissing)
	}
	if !info.IsDir() {
		return "", invalid(TargetDirectory, raw, messages.StoreNotADirectory)
	}
	return abs, nil
}

// ValidateVersion checks a game version such as 1.20 or 1.20.4.
func ValidateVersion(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !versionPattern.MatchString(trimmed) {
		return "", invalid(Version, raw, messages.StoreVersionFormat)
	}
	return trimmed, nil
}

// ValidateDeploymentName checks the server name.
func ValidateDeploymentName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return "", invalid(DeploymentName, raw, messages.StoreValueRequired)
	case utf8.RuneCountInString(trimmed) > MaxDeploymentNameLength:
		return "", invalid(DeploymentName, raw, fmt.Sprintf(messages.StoreNameTooLongFmt, MaxDeploymentNameLength))
	case strings.ContainsAny(trimmed, `/\`):
		return "", invalid(DeploymentName, raw, messages.StoreNamePathSeparator)
	case trimmed == "." || trimmed == "..":
		return "", invalid(DeploymentName, raw, messages.StoreNameReserved)
	case strings.EqualFold(trimmed, StagingDirName):
		return "", invalid(DeploymentName, raw, fmt.Sprintf(messages.StoreNameStagingFmt, StagingDirName))
	}
	return trimmed, nil
}

// ValidatePackageName checks that a package name is usable as a registry entry.
func ValidatePackageName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid(PackageName, raw, messages.StoreValueRequired)
	}
	if strings.ContainsAny(trimmed, `/\`) || trimmed == "." || trimmed == ".." {
		return "", invalid(PackageName, raw, messages.StoreNamePathSeparator)
	}
	return trimmed, nil
}

// ValidateSettingKey checks that key is on the settings allow-list.
func ValidateSettingKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if !properties.IsAllowed(key) {
		return "", &InvalidInputError{Field: "setting", Value: raw, Reason: messages.StoreSettingUnknown}
	}
	return key, nil
}

// ValidateSetting checks key and value and returns the normalized entry.
func ValidateSetting(key string, value string) (properties.Entry, error) {
	normalized, err := ValidateSettingKey(key)
	if err != nil {
		return properties.Entry{}, err
	}
	trimmed := strings.TrimSpace(value)
	fail := func(reason string) (properties.Entry, error) {
		return properties.Entry{}, &InvalidInputError{Field: normalized, Value: value, Reason: reason}
	}
	if strings.ContainsAny(trimmed, "\r\n") {
		return fail(messages.StoreSettingMultiline)
	}

	switch normalized {
	case "max-players":
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return fail(messages.StoreSettingInteger)
		}
		if n < 1 {
			return fail(fmt.Sprintf(messages.StoreSettingMinFmt, 1))
		}
	case "server-port":
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return fail(messages.StoreSettingInteger)
		}
		if n < 1 || n > 65535 {
			return fail(fmt.Sprintf(messages.StoreSettingRangeFmt, 1, 65535))
		}
	case "online-mode":
		lowered := strings.ToLower(trimmed)
		if lowered != "true" && lowered != "false" {
			return fail(messages.StoreSettingBoolean)
		}
		trimmed = lowered
	}
	return properties.Entry{Key: normalized, Value: trimmed}, nil
}
