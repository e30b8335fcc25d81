// Package addons drives the external package manager that downloads add-ons
// into a deployment's mods directory.
package addons

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/process"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
)

// Defaults for the package manager invocation.
const (
	DefaultCommand      = "ferium"
	DefaultLoader       = "quilt"
	DefaultParallelAdds = 4
	// ModsDir is the directory under an install dir that receives add-ons.
	ModsDir = "mods"
)

// DefaultSkinBypassAddons restore player skins on offline-mode servers.
var DefaultSkinBypassAddons = []string{"skinpls"}

// Options configures a Coordinator.
type Options struct {
	Command      string
	Loader       string
	ParallelAdds int
	// SkinBypass lists the add-ons added when online-mode is false.
	SkinBypass []string
	Runner     process.Runner
	Logger     *zerolog.Logger
}

// Request describes one provisioning call.
type Request struct {
	Profile    string
	InstallDir string
	Version    string
	Addons     []string
	// Extra add-ons are merged with Addons; duplicates are added once.
	Extra []string
	// SkipCreate assumes the profile already exists.
	SkipCreate bool
}

// Coordinator runs the package manager. Profile switches are serialized so
// that concurrent provisioning calls never act on each other's profile.
type Coordinator struct {
	opts   Options
	logger zerolog.Logger
	mu     sync.Mutex
}

// New returns a Coordinator with defaults applied to empty options.
func New(opts Options) *Coordinator {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.Loader == "" {
		opts.Loader = DefaultLoader
	}
	if opts.ParallelAdds <= 0 {
		opts.ParallelAdds = DefaultParallelAdds
	}
	if opts.SkinBypass == nil {
		opts.SkinBypass = DefaultSkinBypassAddons
	}
	return &Coordinator{opts: opts, logger: logging.OrGet(opts.Logger, "addons")}
}

// CreateProfile creates a package manager profile whose output directory is
// installDir/mods.
func (c *Coordinator) CreateProfile(ctx context.Context, profile string, version string, installDir string) error {
	if err := c.check(profile, installDir); err != nil {
		return err
	}
	if version == "" {
		return errors.New(messages.AddonsVersionRequired)
	}
	modsDir := filepath.Join(installDir, ModsDir)
	if err := os.MkdirAll(modsDir, 0o755); err != nil {
		return fmt.Errorf(messages.AddonsCreateModsDirFmt, modsDir, err)
	}
	c.logger.Info().Str("profile", profile).Str("version", version).Msg("creating profile")
	err := c.run(ctx, "profile", "create", "-v", version, "-m", c.opts.Loader, "-n", profile, "-o", modsDir)
	if err != nil {
		return fmt.Errorf(messages.AddonsCreateProfileFmt, profile, err)
	}
	return nil
}

// ProvisionAddons creates the profile unless req.SkipCreate is set, adds every
// requested add-on concurrently and downloads them once all adds succeeded.
func (c *Coordinator) ProvisionAddons(ctx context.Context, req Request) error {
	if err := c.check(req.Profile, req.InstallDir); err != nil {
		return err
	}
	if !req.SkipCreate {
		if err := c.CreateProfile(ctx, req.Profile, req.Version, req.InstallDir); err != nil {
			return err
		}
	}
	ids := Merge(req.Addons, req.Extra)

	if err := c.addAll(ctx, req.Profile, ids); err != nil {
		return err
	}
	return c.upgrade(ctx, req.Profile)
}

// SkinBypassAddons returns the skin bypass add-ons when settings turn
// online-mode off.
func (c *Coordinator) SkinBypassAddons(settings []properties.Entry) []string {
	value, ok := properties.Lookup(settings, "online-mode")
	if !ok || !strings.EqualFold(strings.TrimSpace(value), "false") {
		return nil
	}
	return append([]string(nil), c.opts.SkinBypass...)
}

func (c *Coordinator) addAll(ctx context.Context, profile string, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.switchProfile(ctx, profile); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.ParallelAdds)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.logger.Debug().Str("addon", id).Msg("adding")
			if err := c.run(gctx, "add", id); err != nil {
				return fmt.Errorf(messages.AddonsAddFmt, id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Coordinator) upgrade(ctx context.Context, profile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.switchProfile(ctx, profile); err != nil {
		return err
	}
	c.logger.Info().Str("profile", profile).Msg("downloading add-ons")
	if err := c.run(ctx, "upgrade"); err != nil {
		return fmt.Errorf(messages.AddonsUpgradeFmt, profile, err)
	}
	return nil
}

// switchProfile must be called with mu held.
func (c *Coordinator) switchProfile(ctx context.Context, profile string) error {
	if err := c.run(ctx, "profile", "switch", profile); err != nil {
		return fmt.Errorf(messages.AddonsSwitchProfileFmt, profile, err)
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, args ...string) error {
	return c.opts.Runner.Run(ctx, process.Command{
		Tool: filepath.Base(c.opts.Command),
		Path: c.opts.Command,
		Args: args,
	})
}

func (c *Coordinator) check(profile string, installDir string) error {
	if c.opts.Runner == nil {
		return errors.New(messages.AddonsRunnerRequired)
	}
	if profile == "" {
		return errors.New(messages.AddonsProfileRequired)
	}
	if installDir == "" {
		return errors.New(messages.AddonsInstallDirRequired)
	}
	return nil
}

// Merge returns the sorted union of the given add-on lists without blanks.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, id := range list {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
