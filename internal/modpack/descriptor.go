// Package modpack loads mod package descriptors and resolves their dependency closure.
package modpack

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// Extension is the file extension of descriptors in the registry.
const Extension = ".toml"

// ConfigCopy copies configs/<Source> to <install>/config/<Dest>.
type ConfigCopy struct {
	Source string
	Dest   string
}

// Descriptor is the parsed contents of one mod package.
type Descriptor struct {
	Name         string
	Addons       []string
	Configs      []ConfigCopy
	Dependencies []string
}

// descriptorFile mirrors the on-disk layout.
type descriptorFile struct {
	General struct {
		Addons  string `toml:"addons"`
		Configs string `toml:"configs"`
	} `toml:"General"`
	Dependencies struct {
		PackageRefs string `toml:"packageRefs"`
	} `toml:"Dependencies"`
}

// ParseDescriptor decodes descriptor content for the named package.
func ParseDescriptor(name string, data []byte) (*Descriptor, error) {
	var file descriptorFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}

	configs, err := parseConfigs(file.General.Configs)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		Name:         name,
		Addons:       splitList(file.General.Addons),
		Configs:      configs,
		Dependencies: splitList(file.Dependencies.PackageRefs),
	}, nil
}

// splitList splits a comma-separated list, trimming whitespace and skipping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseConfigs(raw string) ([]ConfigCopy, error) {
	var out []ConfigCopy
	for _, item := range splitList(raw) {
		parts := strings.Split(item, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf(messages.ModpackConfigPairFmt, item)
		}
		src, dest := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if src == "" || dest == "" {
			return nil, fmt.Errorf(messages.ModpackConfigPairFmt, item)
		}
		if !filepath.IsLocal(src) || !filepath.IsLocal(dest) {
			return nil, fmt.Errorf(messages.ModpackConfigPathFmt, item)
		}
		out = append(out, ConfigCopy{Source: src, Dest: dest})
	}
	return out, nil
}
