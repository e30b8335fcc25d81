package modpack

import (
	"context"
	"errors"
	"sort"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// Resolution is the flattened closure of a root package.
type Resolution struct {
	// Packages lists every visited package in first-visit order.
	Packages []string
	// Addons is the deduplicated add-on set, sorted.
	Addons []string
	// Configs lists config copies in first-visit order, each (Source, Dest) pair once.
	Configs []ConfigCopy
}

// Resolve walks the package graph depth-first from root. A package already
// visited is skipped, so diamonds contribute once and cycles terminate.
// Loader errors are returned unwrapped.
func Resolve(ctx context.Context, src Source, root string) (*Resolution, error) {
	if src == nil {
		return nil, errors.New(messages.ModpackLoaderRequired)
	}

	res := &Resolution{}
	visited := make(map[string]bool)
	addons := make(map[string]bool)
	configs := make(map[ConfigCopy]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		visited[name] = true
		if err := ctx.Err(); err != nil {
			return err
		}

		desc, err := src.Load(name)
		if err != nil {
			return err
		}
		res.Packages = append(res.Packages, name)
		for _, id := range desc.Addons {
			addons[id] = true
		}
		for _, cfg := range desc.Configs {
			if configs[cfg] {
				continue
			}
			configs[cfg] = true
			res.Configs = append(res.Configs, cfg)
		}
		for _, dep := range desc.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}

	res.Addons = make([]string, 0, len(addons))
	for id := range addons {
		res.Addons = append(res.Addons, id)
	}
	sort.Strings(res.Addons)
	return res, nil
}
