package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/addons"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/fsutil"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/metrics"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/modpack"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/settings"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

// Installer fetches and runs the server installer.
type Installer interface {
	Fetch(ctx context.Context) (string, error)
	Install(ctx context.Context, jarPath string, version string, dir string) error
}

// AddonProvisioner drives the package manager.
type AddonProvisioner interface {
	CreateProfile(ctx context.Context, profile string, version string, installDir string) error
	ProvisionAddons(ctx context.Context, req addons.Request) error
	SkinBypassAddons(settings []properties.Entry) []string
}

// CaptureFunc publishes operator answers into the store. It returns once
// capture is over.
type CaptureFunc func(ctx context.Context, s *store.Store) error

// Provisioner wires the provisioning steps into a milestone graph.
type Provisioner struct {
	Store     *store.Store
	Capture   CaptureFunc
	Installer Installer
	Addons    AddonProvisioner
	Packages  modpack.Source
	Settings  *settings.Assembler
	// ScriptsDir holds start scripts copied beside the server; empty skips them.
	ScriptsDir string
	// ConfigsDir is the root that package config sources are relative to.
	ConfigsDir string
	Metrics    *metrics.Metrics
	Logger     *zerolog.Logger
	OnReached  func(Milestone)
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	InstallDir string
	Profile    string
	Resolution *modpack.Resolution
	// Addons is every add-on handed to the package manager, skin bypass included.
	Addons []string
}

// run carries values produced by one task and read by its dependents. Each
// field is written before its milestone is reached.
type run struct {
	p          *Provisioner
	logger     zerolog.Logger
	location   string
	version    string
	name       string
	pkg        string
	settings   []properties.Entry
	jar        string
	installDir string
	resolution *modpack.Resolution
	addons     []string
}

// Run executes every provisioning step and returns once the server is ready
// or the first step fails.
func (p *Provisioner) Run(ctx context.Context) (*Result, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := logging.OrGet(p.Logger, "pipeline").With().Str("run_id", runID).Logger()
	done := logging.StartOperation(logger, "provision")
	defer done()

	r := &run{p: p, logger: logger}
	g := r.graph()
	g.Logger = &logger
	g.Metrics = p.Metrics
	g.OnReached = p.OnReached

	err := g.Run(ctx)
	p.Metrics.ObserveRun(err)
	if err != nil {
		logger.Error().Err(err).Msg("provisioning failed")
		return nil, err
	}
	return &Result{
		RunID:      runID,
		InstallDir: r.installDir,
		Profile:    r.name,
		Resolution: r.resolution,
		Addons:     r.addons,
	}, nil
}

func (p *Provisioner) check() error {
	switch {
	case p.Store == nil:
		return errors.New(messages.PipelineStoreRequired)
	case p.Capture == nil:
		return errors.New(messages.PipelineCaptureRequired)
	case p.Installer == nil:
		return errors.New(messages.PipelineInstallerRequired)
	case p.Addons == nil:
		return errors.New(messages.PipelineAddonsRequired)
	case p.Packages == nil:
		return errors.New(messages.PipelinePackagesRequired)
	case p.Settings == nil:
		return errors.New(messages.PipelineSettingsRequired)
	}
	return nil
}

func (r *run) graph() *Graph {
	g := NewGraph()
	g.Add(Task{Milestone: CaptureComplete, Run: r.capture})
	g.Add(Task{Milestone: LocationKnown, Run: r.awaitLocation})
	g.Add(Task{Milestone: VersionKnown, Run: r.await(store.Version, &r.version)})
	g.Add(Task{Milestone: NameKnown, Run: r.await(store.DeploymentName, &r.name)})
	g.Add(Task{Milestone: PackageKnown, Run: r.await(store.PackageName, &r.pkg)})
	g.Add(Task{Milestone: SettingsFinal, Run: r.awaitSettingsFinal})
	g.Add(Task{Milestone: InstallerReady, Run: r.fetchInstaller})
	g.Add(Task{Milestone: ServerDownloaded, Requires: []Milestone{InstallerReady, VersionKnown, LocationKnown}, Run: r.installServer})
	g.Add(Task{Milestone: ScriptsStaged, Requires: []Milestone{LocationKnown}, Run: r.stageScripts})
	g.Add(Task{Milestone: SettingsWritten, Requires: []Milestone{LocationKnown}, Run: r.writeSettings})
	g.Add(Task{Milestone: Renamed, Requires: []Milestone{ServerDownloaded, ScriptsStaged, SettingsWritten, NameKnown}, Run: r.rename})
	g.Add(Task{Milestone: ProfileCreated, Requires: []Milestone{Renamed, NameKnown, VersionKnown}, Run: r.createProfile})
	g.Add(Task{Milestone: AddonsResolved, Requires: []Milestone{PackageKnown}, Run: r.resolve})
	g.Add(Task{Milestone: AddonsDownloaded, Requires: []Milestone{ProfileCreated, AddonsResolved, SettingsFinal}, Run: r.downloadAddons})
	g.Add(Task{Milestone: ConfigsStaged, Requires: []Milestone{AddonsResolved, Renamed}, Run: r.stageConfigs})
	g.Add(Task{Milestone: SettingsMerged, Requires: []Milestone{Renamed, SettingsFinal}, Run: r.mergeSettings})
	g.Add(Task{Milestone: Done, Requires: []Milestone{
		CaptureComplete, LocationKnown, VersionKnown, NameKnown, PackageKnown, SettingsFinal,
		InstallerReady, ServerDownloaded, ScriptsStaged, SettingsWritten, Renamed,
		ProfileCreated, AddonsResolved, AddonsDownloaded, ConfigsStaged, SettingsMerged,
	}})
	return g
}

func (r *run) capture(ctx context.Context) error {
	if err := r.p.Capture(ctx, r.p.Store); err != nil {
		return err
	}
	r.p.Store.FinalizeSettings()
	return nil
}

func (r *run) await(field store.Field, dst *string) func(context.Context) error {
	return func(ctx context.Context) error {
		v, err := r.p.Store.AwaitSet(ctx, field)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (r *run) awaitLocation(ctx context.Context) error {
	dir, err := r.p.Store.AwaitSet(ctx, store.TargetDirectory)
	if err != nil {
		return err
	}
	r.location = dir
	staging := filepath.Join(dir, StagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return &fsutil.FilesystemError{Op: "mkdir", Path: staging, Err: err}
	}
	return nil
}

func (r *run) awaitSettingsFinal(ctx context.Context) error {
	final, err := r.p.Store.AwaitSettingsFinal(ctx)
	if err != nil {
		return err
	}
	r.settings = final
	return nil
}

func (r *run) fetchInstaller(ctx context.Context) error {
	jar, err := r.p.Installer.Fetch(ctx)
	if err != nil {
		return err
	}
	r.jar = jar
	return nil
}

func (r *run) installServer(ctx context.Context) error {
	return r.p.Installer.Install(ctx, r.jar, r.version, r.location)
}

func (r *run) stageScripts(ctx context.Context) error {
	staging := filepath.Join(r.location, StagingDir)
	if r.p.ScriptsDir != "" {
		copied, err := fsutil.CopyDir(ctx, r.p.ScriptsDir, staging)
		if err != nil {
			return err
		}
		r.logger.Debug().Strs("scripts", copied).Msg("staged scripts")
	}
	return fsutil.WriteFileAtomic(filepath.Join(staging, EulaFile), []byte(messages.PipelineEulaContent), 0o644)
}

func (r *run) writeSettings(ctx context.Context) error {
	return r.p.Settings.WriteInitial(ctx, filepath.Join(r.location, StagingDir))
}

func (r *run) rename(ctx context.Context) error {
	target := filepath.Join(r.location, r.name)
	if err := fsutil.Rename(filepath.Join(r.location, StagingDir), target); err != nil {
		return err
	}
	r.installDir = target
	return nil
}

func (r *run) createProfile(ctx context.Context) error {
	return r.p.Addons.CreateProfile(ctx, r.name, r.version, r.installDir)
}

func (r *run) resolve(ctx context.Context) error {
	res, err := modpack.Resolve(ctx, r.p.Packages, r.pkg)
	if err != nil {
		return err
	}
	r.resolution = res
	r.logger.Info().Strs("packages", res.Packages).Int("addons", len(res.Addons)).Msg("resolved packages")
	return nil
}

func (r *run) downloadAddons(ctx context.Context) error {
	extra := r.p.Addons.SkinBypassAddons(r.settings)
	r.addons = addons.Merge(r.resolution.Addons, extra)
	return r.p.Addons.ProvisionAddons(ctx, addons.Request{
		Profile:    r.name,
		InstallDir: r.installDir,
		Version:    r.version,
		Addons:     r.resolution.Addons,
		Extra:      extra,
		SkipCreate: true,
	})
}

func (r *run) stageConfigs(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	staged := make([]string, 0, len(r.resolution.Configs))
	for _, c := range r.resolution.Configs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(r.installDir, ConfigDir, c.Dest)
			if err := fsutil.CopyFile(filepath.Join(r.p.ConfigsDir, c.Source), dst); err != nil {
				return err
			}
			mu.Lock()
			staged = append(staged, c.Dest)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.logger.Debug().Strs("configs", staged).Msg("staged configs")
	return nil
}

func (r *run) mergeSettings(ctx context.Context) error {
	return r.p.Settings.Merge(ctx, r.installDir)
}
