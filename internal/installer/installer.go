// Package installer fetches the Quilt server installer and runs it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/process"
)

// Environment keys honoured by the installer.
const (
	EnvCacheDir  = "MSM_CACHE_DIR"
	EnvNoNetwork = "MSM_NO_NETWORK"
)

// DefaultURL serves the latest universal Quilt installer jar.
const DefaultURL = "https://quiltmc.org/api/v1/download-latest-installer/java-universal"

// JarName is the cached installer file name.
const JarName = "quilt-installer.jar"

// ServerDir is the directory the installer creates inside its working directory.
const ServerDir = "server"

var (
	osStat       = os.Stat
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// Options configures an Installer.
type Options struct {
	URL string
	// Java is the java executable used to run the installer jar.
	Java string
	// SHA256 optionally pins the installer checksum.
	SHA256 string
	// Refresh forces a new download even when a cached jar exists.
	Refresh bool
	// CacheDir overrides the cache root; empty uses MSM_CACHE_DIR or the XDG cache.
	CacheDir string
	Runner   process.Runner
	System   System
	Logger   *zerolog.Logger
}

// Installer downloads and runs the server installer.
type Installer struct {
	opts   Options
	sys    System
	logger zerolog.Logger
}

// New returns an Installer. Empty URL and Java fall back to the defaults.
func New(opts Options) *Installer {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Java == "" {
		opts.Java = "java"
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	return &Installer{opts: opts, sys: sys, logger: logging.OrGet(opts.Logger, "installer")}
}

// Fetch returns the path of the installer jar, downloading it under a file
// lock when it is not cached or a refresh was requested.
func (i *Installer) Fetch(ctx context.Context) (string, error) {
	cacheRoot, err := i.cacheRoot()
	if err != nil {
		return "", err
	}
	jarPath := filepath.Join(cacheRoot, "installer", JarName)

	cached, err := exists(jarPath)
	if err != nil {
		return "", err
	}
	if cached && !i.opts.Refresh {
		i.logger.Info().Str("path", jarPath).Msg(messages.InstallerUsingCached)
		return jarPath, nil
	}
	if strings.TrimSpace(i.sys.Getenv(EnvNoNetwork)) != "" {
		if cached {
			return jarPath, nil
		}
		return "", fmt.Errorf(messages.InstallerNotCachedFmt, jarPath, EnvNoNetwork)
	}

	if err := os.MkdirAll(filepath.Dir(jarPath), 0o755); err != nil {
		return "", fmt.Errorf(messages.InstallerCreateCacheDirFmt, err)
	}
	unlock, err := lockCacheEntry(ctx, jarPath+".lock")
	if err != nil {
		return "", err
	}
	defer unlock()

	// Another process may have filled the cache while this one waited.
	if !i.opts.Refresh {
		if cached, err = exists(jarPath); err != nil {
			return "", err
		}
		if cached {
			i.logger.Info().Str("path", jarPath).Msg(messages.InstallerUsingCached)
			return jarPath, nil
		}
	}
	if err := i.download(ctx, jarPath); err != nil {
		return "", err
	}
	return jarPath, nil
}

func (i *Installer) download(ctx context.Context, jarPath string) error {
	tmp, err := osCreateTemp(filepath.Dir(jarPath), JarName+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.InstallerCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	i.logger.Info().Str("url", i.opts.URL).Msg(messages.InstallerDownloading)
	if err := downloadToFile(ctx, i.sys, i.opts.URL, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.InstallerSyncTempFileFmt, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.InstallerCloseTempFileFmt, err)
	}
	if i.opts.SHA256 != "" {
		if err := verifyChecksum(tmpName, i.opts.SHA256); err != nil {
			return err
		}
	}
	if err := osRename(tmpName, jarPath); err != nil {
		return fmt.Errorf(messages.InstallerMoveCachedFmt, err)
	}
	committed = true
	return nil
}

// Install runs the installer jar for version with dir as the working
// directory. The server files land in dir/server.
func (i *Installer) Install(ctx context.Context, jarPath string, version string, dir string) error {
	if i.opts.Runner == nil {
		return errors.New(messages.InstallerRunnerRequired)
	}
	i.logger.Info().Str("version", version).Str("dir", dir).Msg(messages.InstallerRunning)
	return i.opts.Runner.Run(ctx, process.Command{
		Tool: "installer",
		Path: i.opts.Java,
		Args: []string{"-jar", jarPath, "install", "server", version, "--download-server"},
		Dir:  dir,
	})
}

func (i *Installer) cacheRoot() (string, error) {
	if i.opts.CacheDir != "" {
		return i.opts.CacheDir, nil
	}
	if override := strings.TrimSpace(i.sys.Getenv(EnvCacheDir)); override != "" {
		return override, nil
	}
	base := i.sys.CacheHome()
	if base == "" {
		return "", fmt.Errorf(messages.InstallerResolveCacheDirFmt, os.ErrNotExist)
	}
	return filepath.Join(base, "msm"), nil
}

func exists(path string) (bool, error) {
	_, err := osStat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(messages.InstallerCheckCachedFmt, path, err)
}
