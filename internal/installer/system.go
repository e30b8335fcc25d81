package installer

import (
	"os"

	"github.com/adrg/xdg"
)

// System abstracts the environment lookups the installer needs so tests can
// run in parallel without touching process-wide state.
type System interface {
	Getenv(key string) string
	CacheHome() string
}

// RealSystem implements System using the process environment and XDG paths.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// CacheHome returns the XDG cache directory.
func (RealSystem) CacheHome() string {
	return xdg.CacheHome
}
